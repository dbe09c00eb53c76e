package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[generate]
naming = "camel"
descriptors = true

[[site]]
package = "./examples/sprite"
type = "Sprite"
free-functions = true

[[site]]
package = "./internal/physics"
type = "Body"
output = "body_glue.go"
naming = "keep"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Generate.Naming != "camel" || !m.Generate.Descriptors {
		t.Errorf("generate = %+v", m.Generate)
	}
	if m.Generate.Suffix != DefaultSuffix {
		t.Errorf("suffix = %q, want default", m.Generate.Suffix)
	}
	if len(m.Sites) != 2 {
		t.Fatalf("sites count = %d, want 2", len(m.Sites))
	}

	sprite := m.Sites[0]
	if sprite.Package != "./examples/sprite" || sprite.Type != "Sprite" || !sprite.FreeFunctions {
		t.Errorf("sprite site = %+v", sprite)
	}
	if sprite.Output != "sprite_bind.go" {
		t.Errorf("sprite output = %q", sprite.Output)
	}
	if sprite.Naming != "camel" {
		t.Errorf("sprite naming = %q, want inherited camel", sprite.Naming)
	}

	body := m.Sites[1]
	if body.Output != "body_glue.go" || body.Naming != "keep" || body.FreeFunctions {
		t.Errorf("body site = %+v", body)
	}

	absDir, _ := filepath.Abs(dir)
	if m.Dir != absDir {
		t.Errorf("Dir = %q, want %q", m.Dir, absDir)
	}
	if got := m.PackageDir(sprite); got != filepath.Join(absDir, "examples", "sprite") {
		t.Errorf("PackageDir = %q", got)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	m, err := Parse([]byte("[[site]]\npackage = \".\"\ntype = \"Thing\"\n"), "inline")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Generate.Naming != DefaultNaming || m.Generate.Suffix != DefaultSuffix || m.Generate.Descriptors {
		t.Errorf("generate defaults = %+v", m.Generate)
	}
	if m.Sites[0].Output != "thing_bind.go" || m.Sites[0].Naming != DefaultNaming {
		t.Errorf("site defaults = %+v", m.Sites[0])
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	m, err := Parse(nil, "empty")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(m.Sites) != 0 {
		t.Errorf("sites = %v", m.Sites)
	}
}

func TestSchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown top-level key", "[project]\nname = \"x\"\n", "project"},
		{"unknown generate key", "[generate]\nstyle = \"snake\"\n", "style"},
		{"unknown site key", "[[site]]\npackage = \".\"\ntype = \"T\"\nprefix = \"x\"\n", "prefix"},
		{"bad naming", "[generate]\nnaming = \"kebab\"\n", "naming"},
		{"bad suffix", "[generate]\nsuffix = \"_bind.txt\"\n", "suffix"},
		{"missing type", "[[site]]\npackage = \".\"\n", "type"},
		{"empty package", "[[site]]\npackage = \"\"\ntype = \"T\"\n", "package"},
		{"bad type name", "[[site]]\npackage = \".\"\ntype = \"pkg.T\"\n", "type"},
		{"wrong value type", "[generate]\ndescriptors = \"yes\"\n", "descriptors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bindgen.toml")
			if err == nil {
				t.Fatal("expected schema error")
			}
			if !strings.Contains(err.Error(), "invalid bindgen.toml") {
				t.Errorf("err = %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte("[generate\n"), "bindgen.toml")
	if err == nil || !strings.Contains(err.Error(), "parse error in bindgen.toml") {
		t.Errorf("err = %v", err)
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[[site]]\npackage = \"./a\"\ntype = \"A\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected manifest")
	}
	absRoot, _ := filepath.Abs(root)
	if m.Dir != absRoot {
		t.Errorf("Dir = %q, want %q", m.Dir, absRoot)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest")
	}
}

func TestParseSite(t *testing.T) {
	var none *Manifest
	s, err := none.ParseSite("./examples/sprite:Sprite")
	if err != nil {
		t.Fatal(err)
	}
	if s.Package != "./examples/sprite" || s.Type != "Sprite" || s.Output != "sprite_bind.go" || s.Naming != DefaultNaming {
		t.Errorf("site = %+v", s)
	}

	m := &Manifest{Generate: Generate{Naming: "keep", Suffix: "_gen.go"}}
	s, err = m.ParseSite("example.com/x/y:Body")
	if err != nil {
		t.Fatal(err)
	}
	if s.Package != "example.com/x/y" || s.Output != "body_gen.go" || s.Naming != "keep" {
		t.Errorf("site = %+v", s)
	}

	for _, bad := range []string{"nocolon", ":T", "pkg:"} {
		if _, err := m.ParseSite(bad); err == nil {
			t.Errorf("ParseSite(%q): expected error", bad)
		}
	}
}
