package projection

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const (
	modulePath    = "github.com/jo-hoe/skymap"
	projImport    = "github.com/pebbe/proj/v5"
	mollweidePath = modulePath + "/internal/backend/projection/mollweide"
)

// packageImports maps every package under internal/ to the imports of its
// source and test files
func packageImports(t *testing.T) map[string][]string {
	t.Helper()
	root := filepath.Join("..", "..")
	fset := token.NewFileSet()
	out := make(map[string][]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") {
			return err
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		pkg := modulePath + "/internal/" + filepath.ToSlash(rel)

		file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range file.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				return err
			}
			out[pkg] = append(out[pkg], imp)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to scan packages: %v", err)
	}
	return out
}

func TestOnlyMollweideLinksPROJ(t *testing.T) {
	imports := packageImports(t)
	if _, ok := imports[mollweidePath]; !ok {
		t.Fatalf("Expected to find %s", mollweidePath)
	}

	for pkg := range imports {
		if pkg == mollweidePath {
			continue
		}
		seen := map[string]bool{}
		stack := []string{pkg}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[cur] {
				continue
			}
			seen[cur] = true
			for _, imp := range imports[cur] {
				if imp == projImport {
					t.Errorf("%s links PROJ through %s", pkg, cur)
				}
				if strings.HasPrefix(imp, modulePath+"/") {
					stack = append(stack, imp)
				}
			}
		}
	}
}
