package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeMarksCoercion(t *testing.T) {
	cases := []struct {
		name  string
		marks string
		want  int
	}{
		{name: "integer", marks: `85`, want: 85},
		{name: "numeric_string", marks: `"85"`, want: 85},
		{name: "float_string", marks: `"85.5"`, want: 85},
		{name: "zero", marks: `0`, want: 0},
		{name: "hundred", marks: `100`, want: 100},
		{name: "above_range", marks: `150`, want: 0},
		{name: "below_range", marks: `-1`, want: 0},
		{name: "non_numeric_string", marks: `"excellent"`, want: 0},
		{name: "null", marks: `null`, want: 0},
		{name: "boolean", marks: `true`, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := fmt.Sprintf(`{"Name": "x", "marks": %s, "remarks": [], "suggestions": [], "errors": []}`, tc.marks)
			results, err := normalizeResults(raw)
			require.NoError(t, err)
			require.Len(t, results, 1)
			require.Equal(t, tc.want, results[0].Marks)
		})
	}
}

func TestNormalizeMarksMissing(t *testing.T) {
	results, err := normalizeResults(`{"Name": ""}`)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 0, results[0].Marks)
}

func TestNormalizeListDefaults(t *testing.T) {
	results, err := normalizeResults(`{"marks": 70, "remarks": null, "errors": ["a", "b", "c"]}`)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.NotNil(t, r.Remarks)
	require.Empty(t, r.Remarks)
	require.NotNil(t, r.Suggestions)
	require.Empty(t, r.Suggestions)
	require.Equal(t, []string{"a", "b", "c"}, r.Errors)
}

func TestNormalizeNameDefaults(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "present", raw: `{"Name": "Roll 42"}`, want: "Roll 42"},
		{name: "null", raw: `{"Name": null}`, want: ""},
		{name: "absent", raw: `{"marks": 10}`, want: ""},
		{name: "numeric", raw: `{"Name": 42}`, want: "42"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := normalizeResults(tc.raw)
			require.NoError(t, err)
			require.Len(t, results, 1)
			require.Equal(t, tc.want, results[0].Name)
		})
	}
}

func TestNormalizeStripsCodeFences(t *testing.T) {
	plain := `{"Name": "A", "marks": 90, "remarks": ["solid"], "suggestions": [], "errors": []}`
	fenced := "```json\n" + plain + "\n```"

	fromPlain, err := normalizeResults(plain)
	require.NoError(t, err)
	fromFenced, err := normalizeResults(fenced)
	require.NoError(t, err)

	require.Equal(t, fromPlain, fromFenced)
}

func TestNormalizeArrayResponse(t *testing.T) {
	raw := `[
		{"Name": "first", "marks": 80, "remarks": ["ok"], "suggestions": [], "errors": []},
		{"Name": "second", "marks": 60, "remarks": [], "suggestions": ["shorten"], "errors": ["typo"]}
	]`

	results, err := normalizeResults(raw)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "first", results[0].Name)
	require.Equal(t, 80, results[0].Marks)
	require.Equal(t, "second", results[1].Name)
	require.Equal(t, []string{"typo"}, results[1].Errors)
}

func TestNormalizeMalformedResponse(t *testing.T) {
	_, err := normalizeResults("the paper is quite good overall")
	require.ErrorIs(t, err, ErrParse)
}

func TestNormalizeRejectsScalarRoot(t *testing.T) {
	_, err := normalizeResults(`"42"`)
	require.ErrorIs(t, err, ErrParse)
}

func TestNormalizeSchemaRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "remarks_not_array", raw: `{"remarks": "looks fine"}`},
		{name: "non_string_list_elements", raw: `{"errors": [1, 2]}`},
		{name: "object_name", raw: `{"Name": {"first": "A"}}`},
		{name: "array_of_scalars", raw: `[42]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalizeResults(tc.raw)
			require.ErrorIs(t, err, ErrParse)
		})
	}
}
