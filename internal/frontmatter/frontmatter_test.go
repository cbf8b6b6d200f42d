package frontmatter

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	text := "---\ntitle: Hello\nfeatured: true\nreadTime: 5\ntags:\n  - go\n  - cms\n---\n# Heading\n\nBody text.\n"

	attrs, body, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	want := map[string]interface{}{
		"title":    "Hello",
		"featured": true,
		"readTime": 5,
		"tags":     []string{"go", "cms"},
	}
	if !reflect.DeepEqual(attrs, want) {
		t.Errorf("attributes mismatch:\n got %#v\nwant %#v", attrs, want)
	}
	if body != "# Heading\n\nBody text.\n" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestDecodeUnquotedDate(t *testing.T) {
	attrs, _, err := Decode("---\ndate: 2025-01-15\n---\nbody")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if attrs["date"] != "2025-01-15" {
		t.Errorf("date = %#v, want the string 2025-01-15", attrs["date"])
	}
}

func TestDecodeEmptyBlock(t *testing.T) {
	attrs, body, err := Decode("---\n---\njust a body")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(attrs) != 0 {
		t.Errorf("expected empty attributes, got %#v", attrs)
	}
	if body != "just a body" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"no delimiter", "title: Hello\nbody"},
		{"plain markdown", "# Just markdown"},
		{"unterminated", "---\ntitle: Hello\nno closing line"},
		{"empty document", ""},
		{"lone delimiter", "---"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Decode(tc.text); !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode(%q) err = %v, want ErrMalformed", tc.text, err)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		attrs map[string]interface{}
		body  string
	}{
		{
			name: "full record",
			attrs: map[string]interface{}{
				"title":    "AI Trends 2025",
				"excerpt":  "What is coming next",
				"featured": false,
				"readTime": 5,
				"tags":     []string{"ai", "automation"},
			},
			body: "# Intro\n\nSome **markdown** here.\n\n- one\n- two\n",
		},
		{
			name:  "empty attributes",
			attrs: map[string]interface{}{},
			body:  "only a body",
		},
		{
			name: "empty body",
			attrs: map[string]interface{}{
				"title": "No body yet",
			},
			body: "",
		},
		{
			name: "body containing delimiters",
			attrs: map[string]interface{}{
				"title": "Tricky",
			},
			body: "intro\n\n---\n\na horizontal rule above\n",
		},
		{
			name: "special characters",
			attrs: map[string]interface{}{
				"title":   "Design: systems & \"craft\"",
				"excerpt": "multi\nline",
			},
			body: "body",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := Encode(tc.attrs, tc.body)
			if err != nil {
				t.Fatalf("Encode returned error: %v", err)
			}
			attrs, body, err := Decode(text)
			if err != nil {
				t.Fatalf("Decode returned error: %v\ndocument:\n%s", err, text)
			}
			if !reflect.DeepEqual(attrs, tc.attrs) {
				t.Errorf("attributes did not round-trip:\n got %#v\nwant %#v", attrs, tc.attrs)
			}
			if body != tc.body {
				t.Errorf("body did not round-trip:\n got %q\nwant %q", body, tc.body)
			}
		})
	}
}
