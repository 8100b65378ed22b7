// Package filetest implements golden-file tests: each source file of a
// testdata directory is processed, and its output is compared with the
// content of the corresponding files in a results directory.
package filetest

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

var testUpdateAllTests = flag.Bool("test.update-all-tests", false, "If set, sets all test.update-*-tests.")

// Golden compares outputs with the golden files stored in ResultDir. If
// Update (or the global -test.update-all-tests flag) is set, the golden
// files are written instead.
type Golden struct {
	SrcDir    string
	ResultDir string
	Update    *bool
}

// SourceFiles returns the list of source files in g.SrcDir with the
// specified extension.
func (g Golden) SourceFiles(t *testing.T, ext string) []os.FileInfo {
	t.Helper()

	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}

	dents, err := os.ReadDir(g.SrcDir)
	if err != nil {
		t.Fatal(err)
	}

	res := make([]os.FileInfo, 0, len(dents))
	for _, dent := range dents {
		if !dent.Type().IsRegular() {
			continue
		}
		if ext != "" && filepath.Ext(dent.Name()) != ext {
			continue
		}
		fi, err := dent.Info()
		if err != nil {
			t.Fatal(err)
		}
		res = append(res, fi)
	}
	return res
}

// Path returns the path of the source file fi.
func (g Golden) Path(fi os.FileInfo) string {
	return filepath.Join(g.SrcDir, fi.Name())
}

// DiffOutput validates that output is the same as the expected result in the
// ".want" golden file of fi.
func (g Golden) DiffOutput(t *testing.T, fi os.FileInfo, output string) {
	t.Helper()
	g.Diff(t, fi, "output", ".want", output)
}

// DiffErrors validates that the errors output is the same as the expected
// result in the ".err" golden file of fi.
func (g Golden) DiffErrors(t *testing.T, fi os.FileInfo, output string) {
	t.Helper()
	g.Diff(t, fi, "errors", ".err", output)
}

// Diff is the general version of DiffOutput and DiffErrors. The label is
// used in the error logs (e.g. "output", "errors") and ext is the extension
// of the golden file, including the leading dot. A missing golden file is
// the same as an empty one.
func (g Golden) Diff(t *testing.T, fi os.FileInfo, label, ext, output string) {
	t.Helper()

	goldFile := filepath.Join(g.ResultDir, fi.Name()+ext)
	if (g.Update != nil && *g.Update) || *testUpdateAllTests {
		if err := os.WriteFile(goldFile, []byte(output), 0600); err != nil {
			t.Fatal(err)
		}
		return
	}

	wantb, err := os.ReadFile(goldFile)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	want := string(wantb)
	if testing.Verbose() {
		t.Logf("got %s:\n%s\n", label, output)
	}
	if patch := diff.Diff(want, output); patch != "" {
		if testing.Verbose() {
			t.Logf("want %s:\n%s\n", label, want)
		}
		t.Errorf("diff %s:\n%s\n", label, patch)
	}
}
