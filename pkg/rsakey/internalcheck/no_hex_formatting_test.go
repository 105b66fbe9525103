package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

func TestNoHexFormatting(t *testing.T) {
	var findings []string

	inspectFiles(t, func(pkg *packages.Package, fset *token.FileSet, n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		selector, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		obj := pkg.TypesInfo.Uses[selector.Sel]
		if obj == nil || obj.Pkg() == nil {
			return true
		}

		formatIdx, ok := formatIndex(obj.Pkg().Path(), obj.Name())
		if !ok || len(call.Args) <= formatIdx {
			return true
		}
		lit, ok := call.Args[formatIdx].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}
		value, err := strconv.Unquote(lit.Value)
		if err != nil {
			return true
		}

		if containsHexVerb(value) {
			pos := fset.Position(lit.Pos())
			findings = append(findings, fmt.Sprintf("%s: avoid %%x formatting of key material", pos))
		}
		return true
	})

	report(t, "secret formatting", findings)
}

func formatIndex(pkgPath, name string) (int, bool) {
	switch pkgPath {
	case "fmt":
		switch name {
		case "Errorf", "Printf", "Sprintf":
			return 0, true
		case "Fprintf":
			return 1, true
		}
	case "log":
		switch name {
		case "Printf", "Fatalf", "Panicf":
			return 0, true
		}
	}
	return 0, false
}

func containsHexVerb(s string) bool {
	for _, verb := range []string{"%x", "%X", "%#x", "%#X", "% x", "% X"} {
		if strings.Contains(s, verb) {
			return true
		}
	}
	return false
}
