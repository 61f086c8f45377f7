package richtext

import (
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "<p></p>"},
		{"paragraph", "<p>Hi <b>there</b></p>", "<p>Hi <strong>there</strong></p>"},
		{"escapes text", "<p>a &lt;script&gt;</p>", "<p>a &lt;script&gt;</p>"},
		{"link", `<p><a href="https://x.test/?a=1&amp;b=2">x</a></p>`, `<p><a href="https://x.test/?a=1&amp;b=2" target="_blank" rel="noopener">x</a></p>`},
		{"list", "<ul><li>a</li></ul>", "<ul><li>a</li></ul>"},
		{"heading and rule", "<h3>T</h3><hr>", "<h3>T</h3><hr>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromHTML(tt.in).ToHTML()
			if got != tt.want {
				t.Errorf("ToHTML: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	doc := FromHTML("<h2>Title</h2><p>Line<br>two</p><ul><li>a</li><li>b</li></ul>")
	want := "Title\n\nLine\ntwo\n\n- a\n- b"
	if got := doc.PlainText(); got != want {
		t.Errorf("PlainText: got %q, want %q", got, want)
	}
}
