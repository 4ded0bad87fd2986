package env

import "testing"

func TestGetTrimsAndFallsBack(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_VALUE", "  json ")
	if got := Get("STOREFRONT_TEST_VALUE", "console"); got != "json" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	t.Setenv("STOREFRONT_TEST_VALUE", "   ")
	if got := Get("STOREFRONT_TEST_VALUE", "console"); got != "console" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestFirstSkipsBlank(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_A", "")
	t.Setenv("STOREFRONT_TEST_B", "web.2")
	if got := First("STOREFRONT_TEST_A", "STOREFRONT_TEST_B"); got != "web.2" {
		t.Fatalf("expected web.2, got %q", got)
	}
	if got := First(); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
