package library

import (
	"testing"
	"time"

	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC)
}

func words(ws []lexis.SavedWord) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Word
	}
	return out
}

func titles(ss []lexis.SavedSong) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Title
	}
	return out
}

func TestSortLearnedInverted(t *testing.T) {
	items := []lexis.SavedWord{{Word: "a", Learned: false}, {Word: "b", Learned: true}}

	require.Equal(t, []string{"b", "a"}, words(Sort(items, FieldLearned, Asc)))
	require.Equal(t, []string{"a", "b"}, words(Sort(items, FieldLearned, Desc)))
}

func TestSortWords(t *testing.T) {
	items := []lexis.SavedWord{
		{Word: "zebra", CreatedAt: day(2)},
		{Word: "Apple", CreatedAt: day(3)},
		{Word: "éclair", CreatedAt: day(1)},
		{Word: "banana", CreatedAt: day(4)},
	}

	tests := []struct {
		name  string
		by    Field
		order Order
		want  []string
	}{
		{"word asc", FieldWord, Asc, []string{"Apple", "banana", "éclair", "zebra"}},
		{"word desc", FieldWord, Desc, []string{"zebra", "éclair", "banana", "Apple"}},
		{"created asc", FieldCreatedAt, Asc, []string{"éclair", "zebra", "Apple", "banana"}},
		{"created desc", FieldCreatedAt, Desc, []string{"banana", "Apple", "zebra", "éclair"}},
		{"unknown order sorts descending", FieldCreatedAt, Order("sideways"), []string{"banana", "Apple", "zebra", "éclair"}},
		{"unknown field keeps order", Field("color"), Asc, []string{"zebra", "Apple", "éclair", "banana"}},
		{"field a word lacks keeps order", FieldTitle, Asc, []string{"zebra", "Apple", "éclair", "banana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, words(Sort(items, tt.by, tt.order)))
		})
	}
}

func TestSortSongs(t *testing.T) {
	items := []lexis.SavedSong{
		{Title: "Yesterday", Artist: "The Beatles", CreatedAt: day(5)},
		{Title: "Hurt", Artist: "Johnny Cash", CreatedAt: day(1)},
		{Title: "Africa", Artist: "Toto", CreatedAt: day(3)},
	}

	require.Equal(t, []string{"Africa", "Hurt", "Yesterday"}, titles(Sort(items, FieldTitle, Asc)))
	require.Equal(t, []string{"Hurt", "Yesterday", "Africa"}, titles(Sort(items, FieldArtist, Asc)))
	require.Equal(t, []string{"Hurt", "Yesterday", "Africa"}, titles(Sort(items, FieldAuthor, Asc)))
	require.Equal(t, []string{"Yesterday", "Africa", "Hurt"}, titles(Sort(items, FieldCreatedAt, Desc)))
}

func TestSortStable(t *testing.T) {
	items := []lexis.SavedWord{
		{Word: "one", Learned: true},
		{Word: "two"},
		{Word: "three", Learned: true},
		{Word: "four"},
	}

	require.Equal(t, []string{"one", "three", "two", "four"}, words(Sort(items, FieldLearned, Asc)))
	require.Equal(t, []string{"two", "four", "one", "three"}, words(Sort(items, FieldLearned, Desc)))
}

func TestSortDoesNotMutate(t *testing.T) {
	items := []lexis.SavedWord{{Word: "b"}, {Word: "a"}}
	sorted := Sort(items, FieldWord, Asc)

	require.Equal(t, []string{"a", "b"}, words(sorted))
	require.Equal(t, []string{"b", "a"}, words(items))

	unchanged := Sort(items, Field("nope"), Asc)
	unchanged[0].Word = "changed"
	require.Equal(t, "b", items[0].Word)
}

func TestSortEmpty(t *testing.T) {
	require.Empty(t, Sort([]lexis.SavedWord{}, FieldWord, Asc))
	require.Empty(t, Sort[lexis.SavedWord](nil, FieldWord, Asc))
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{"title", FieldTitle, false},
		{" Artist ", FieldArtist, false},
		{"author", FieldAuthor, false},
		{"createdAt", FieldCreatedAt, false},
		{"date", FieldCreatedAt, false},
		{"learned", FieldLearned, false},
		{"colour", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseField(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownField)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("DESC")
	require.NoError(t, err)
	require.Equal(t, Desc, o)

	_, err = ParseOrder("up")
	require.ErrorIs(t, err, ErrUnknownOrder)
}

func TestToggle(t *testing.T) {
	f, o := Toggle(FieldTitle, Asc, FieldTitle)
	require.Equal(t, FieldTitle, f)
	require.Equal(t, Desc, o)

	f, o = Toggle(f, o, FieldTitle)
	require.Equal(t, Asc, o)

	f, o = Toggle(FieldTitle, Desc, FieldArtist)
	require.Equal(t, FieldArtist, f)
	require.Equal(t, Asc, o)
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "March 05, 2024", FormatDate(day(5)))
	require.Equal(t, "", FormatDate(time.Time{}))
}
