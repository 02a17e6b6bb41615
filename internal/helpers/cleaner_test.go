package helpers

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	t.Parallel()
	in := "فقرة أولى مهمة.\nاقرأ أيضا: مقال آخر\nفقرة ثانية.\n\nhttps://example.com/share\nShare this article on X\nالخاتمة."
	got := CleanText(in)
	if strings.Contains(got, "اقرأ أيضا") {
		t.Errorf("arabic boilerplate not removed: %q", got)
	}
	if strings.Contains(got, "Share this article") {
		t.Errorf("english boilerplate not removed: %q", got)
	}
	if strings.Contains(got, "https://example.com/share") {
		t.Errorf("bare link line not removed: %q", got)
	}
	for _, keep := range []string{"فقرة أولى مهمة.", "فقرة ثانية.", "الخاتمة."} {
		if !strings.Contains(got, keep) {
			t.Errorf("body text lost: %q missing from %q", keep, got)
		}
	}
}

func TestCleanText_Empty(t *testing.T) {
	t.Parallel()
	if got := CleanText(""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
