package catalog

import "testing"

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cat
}

func TestLoad(t *testing.T) {
	cat := mustLoad(t)

	if cat.Len() == 0 {
		t.Fatalf("embedded catalog is empty")
	}
	if got := len(cat.IDs()); got != cat.Len() {
		t.Errorf("IDs() returned %d ids for %d products", got, cat.Len())
	}

	for _, id := range cat.IDs() {
		p, ok := cat.Get(id)
		if !ok {
			t.Fatalf("Get(%q) missing after IDs() listed it", id)
		}
		if p.NameEN == "" || p.NameES == "" {
			t.Errorf("product %q is missing a localized name: %+v", id, p)
		}
		if p.DefaultMaxPricePerThousand <= 0 {
			t.Errorf("product %q has no default price", id)
		}
	}
}

func TestGet(t *testing.T) {
	cat := mustLoad(t)

	wheat, ok := cat.Get("wheat")
	if !ok {
		t.Fatalf("expected wheat in the catalog")
	}
	if wheat.NameEN != "Wheat" {
		t.Errorf("wheat NameEN = %q", wheat.NameEN)
	}

	if _, ok := cat.Get("unobtainium"); ok {
		t.Errorf("expected unknown product to be absent")
	}
}

func TestNameLocalization(t *testing.T) {
	cat := mustLoad(t)

	tests := []struct {
		name   string
		id     string
		locale string
		want   string
	}{
		{name: "english", id: "wheat", locale: "en", want: "Wheat"},
		{name: "spanish", id: "wheat", locale: "es", want: "Trigo"},
		{name: "regional spanish", id: "wheat", locale: "es-MX", want: "Trigo"},
		{name: "unsupported language falls back to english", id: "wheat", locale: "de", want: "Wheat"},
		{name: "empty locale falls back to english", id: "wheat", locale: "", want: "Wheat"},
		{name: "unknown id renders raw", id: "unobtainium", locale: "en", want: "unobtainium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.Name(tt.id, tt.locale); got != tt.want {
				t.Errorf("Name(%q, %q) = %q, expected %q", tt.id, tt.locale, got, tt.want)
			}
		})
	}
}
