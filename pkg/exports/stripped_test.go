package exports

import "testing"

func TestStrippedJSON(t *testing.T) {
	tests := []struct {
		name string
		data interface{}
		want string
	}{
		{
			name: "flat mapping",
			data: map[string]interface{}{"a": 1, "b": "x"},
			want: "  a: 1,\n  b: x",
		},
		{
			name: "nested list keeps brackets",
			data: map[string]interface{}{"k": []interface{}{1, 2}},
			want: "  k: [\n    1,\n    2\n  ]",
		},
		{
			name: "top level list",
			data: []interface{}{"a", "b"},
			want: "[\n  a,\n  b\n]",
		},
		{
			name: "apostrophes are stripped",
			data: map[string]interface{}{"a": "it's"},
			want: "  a: its",
		},
		{
			name: "empty mapping",
			data: map[string]interface{}{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StrippedJSON(tt.data)
			if err != nil {
				t.Fatalf("StrippedJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("StrippedJSON = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStrippedJSONDeterministic(t *testing.T) {
	data := map[string]interface{}{"z": 1, "a": 2, "m": []interface{}{"x"}}

	first, err := StrippedJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := StrippedJSON(data)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("output changed between runs:\n%q\n%q", first, got)
		}
	}
}
