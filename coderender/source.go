package coderender

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"runtime"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/probe/cache"
)

// maxScan bounds the PC walk in the disasm view.
const maxScan = 1 << 14

// Config configures a SourceRenderer.
type Config struct {
	// MaxFiles bounds the number of parsed source files kept in memory.
	// Default: 64
	MaxFiles int

	// Policy controls memoization of rendered text.
	// Default: cache.DefaultPolicy()
	Policy cache.Policy
}

// DefaultConfig returns the configuration used by Default.
func DefaultConfig() Config {
	return Config{
		MaxFiles: 64,
		Policy:   cache.DefaultPolicy(),
	}
}

// SourceRenderer renders functions from the runtime symbol table and the Go
// source files recorded in it.
type SourceRenderer struct {
	files *lru.Cache[fileKey, *parsedFile]
	lines *lru.Cache[fileKey, []string]
	group singleflight.Group
	memo  *cache.Memo
	keyer cache.Keyer
}

// fileKey includes size and mtime so an edited file is parsed again.
type fileKey struct {
	path    string
	size    int64
	modTime int64
}

type parsedFile struct {
	fset *token.FileSet
	file *ast.File
}

// NewSourceRenderer creates a SourceRenderer.
func NewSourceRenderer(cfg Config) (*SourceRenderer, error) {
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 64
	}
	files, err := lru.New[fileKey, *parsedFile](cfg.MaxFiles)
	if err != nil {
		return nil, fmt.Errorf("coderender: file cache: %w", err)
	}
	lines, err := lru.New[fileKey, []string](cfg.MaxFiles)
	if err != nil {
		return nil, fmt.Errorf("coderender: line cache: %w", err)
	}
	return &SourceRenderer{
		files: files,
		lines: lines,
		memo:  cache.NewMemo(cache.NewMemoryCache(cfg.Policy), cfg.Policy),
		keyer: cache.NewKeyer("code"),
	}, nil
}

// RenderCode renders the views selected by flags for fn.
func (r *SourceRenderer) RenderCode(fn reflect.Value, indent int, flags Flags) (out string) {
	if flags == 0 {
		return ""
	}
	defer func() {
		if p := recover(); p != nil {
			out = indentLines(fmt.Sprintf("code unavailable: %v", p), indent)
		}
	}()

	sym, err := lookupSymbol(fn)
	if err != nil {
		return indentLines("code unavailable: "+err.Error(), indent)
	}

	key, err := r.keyer.Key(sym.Name(), []int{int(flags), indent})
	if err != nil {
		return r.render(sym, indent, flags)
	}
	text, err := r.memo.Do(context.Background(), key, func(context.Context) ([]byte, error) {
		return []byte(r.render(sym, indent, flags)), nil
	})
	if err != nil {
		return r.render(sym, indent, flags)
	}
	return string(text)
}

func (r *SourceRenderer) render(sym *runtime.Func, indent int, flags Flags) string {
	var sections []string
	if flags&Disasm != 0 {
		sections = append(sections, disasm(sym))
	}
	if flags&(Syntax|Source) != 0 {
		file, line := sym.FileLine(sym.Entry())
		pf, node, err := r.locate(file, line)
		if err != nil {
			sections = append(sections, "source unavailable: "+err.Error())
		} else {
			if flags&Syntax != 0 {
				var b strings.Builder
				if err := ast.Fprint(&b, pf.fset, node, ast.NotNilFilter); err != nil {
					sections = append(sections, "syntax unavailable: "+err.Error())
				} else {
					sections = append(sections, strings.TrimRight(b.String(), "\n"))
				}
			}
			if flags&Source != 0 {
				var b bytes.Buffer
				if err := format.Node(&b, pf.fset, node); err != nil {
					sections = append(sections, "source unavailable: "+err.Error())
				} else {
					sections = append(sections, b.String())
				}
			}
		}
	}
	return indentLines(strings.Join(sections, "\n"), indent)
}

// disasm lists the symbol header and every PC at which the source line
// changes. Go binaries carry no instruction decoder, so the pcln table is
// the finest view the runtime offers.
func disasm(sym *runtime.Func) string {
	var b strings.Builder
	entry := sym.Entry()
	file, line := sym.FileLine(entry)
	fmt.Fprintf(&b, "TEXT %s(SB) %s:%d", sym.Name(), file, line)

	lastLine := -1
	for off := uintptr(0); off < maxScan; off++ {
		pc := entry + off
		f := runtime.FuncForPC(pc)
		if f == nil || f.Entry() != entry {
			break
		}
		_, l := sym.FileLine(pc)
		if l != lastLine {
			fmt.Fprintf(&b, "\n  %#x\t+%d\tline %d", pc, off, l)
			lastLine = l
		}
	}
	return b.String()
}

func (r *SourceRenderer) locate(path string, line int) (*parsedFile, ast.Node, error) {
	pf, err := r.parse(path)
	if err != nil {
		return nil, nil, err
	}
	node := enclosingFunc(pf, line)
	if node == nil {
		return nil, nil, fmt.Errorf("%w: %s:%d", ErrNoDecl, path, line)
	}
	return pf, node, nil
}

func (r *SourceRenderer) parse(path string) (*parsedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fileKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
	if pf, ok := r.files.Get(key); ok {
		return pf, nil
	}

	v, err, _ := r.group.Do(fmt.Sprintf("%s@%d", path, key.modTime), func() (any, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
		if err != nil {
			return nil, err
		}
		pf := &parsedFile{fset: fset, file: file}
		r.files.Add(key, pf)
		return pf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*parsedFile), nil
}

// SourceLine returns line (1-based) of the file at path without its
// surrounding space.
func (r *SourceRenderer) SourceLine(path string, line int) (string, bool) {
	lines, err := r.fileLines(path)
	if err != nil || line < 1 || line > len(lines) {
		return "", false
	}
	return strings.TrimSpace(lines[line-1]), true
}

func (r *SourceRenderer) fileLines(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fileKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
	if lines, ok := r.lines.Get(key); ok {
		return lines, nil
	}

	v, err, _ := r.group.Do(fmt.Sprintf("lines:%s@%d", path, key.modTime), func() (any, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		lines := strings.Split(string(src), "\n")
		r.lines.Add(key, lines)
		return lines, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// enclosingFunc returns the innermost function declaration or literal whose
// lines cover line.
func enclosingFunc(pf *parsedFile, line int) ast.Node {
	var best ast.Node
	ast.Inspect(pf.file, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FuncDecl, *ast.FuncLit:
			start := pf.fset.Position(n.Pos()).Line
			end := pf.fset.Position(n.End()).Line
			if start <= line && line <= end {
				best = n
			}
		}
		return true
	})
	return best
}

// Ensure SourceRenderer implements Renderer and LineSource
var (
	_ Renderer   = (*SourceRenderer)(nil)
	_ LineSource = (*SourceRenderer)(nil)
)
