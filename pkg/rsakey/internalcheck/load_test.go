package internalcheck

import (
	"go/ast"
	"go/token"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const rsakeyPackages = "github.com/coinbase/rsakey-go/pkg/rsakey/..."

// inspectFiles loads every rsakey package and calls visit for each node of
// each non-test file.
func inspectFiles(t *testing.T, visit func(pkg *packages.Package, fset *token.FileSet, n ast.Node) bool) {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, rsakeyPackages)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatalf("no packages matched %s", rsakeyPackages)
	}

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			t.Fatalf("package %s: %v", pkg.PkgPath, e)
		}
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				return visit(pkg, pkg.Fset, n)
			})
		}
	}
}

func report(t *testing.T, policy string, findings []string) {
	t.Helper()
	if len(findings) > 0 {
		t.Fatalf("%s policy violation:\n%s", policy, strings.Join(findings, "\n"))
	}
}
