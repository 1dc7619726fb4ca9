package textspec

import (
	"os"

	"rv2model/internal/rverrors"
	"rv2model/internal/sir"
)

// Parser is the concrete specparser.Parser for the textspec contract
// language.
type Parser struct{}

// New constructs a textspec Parser.
func New() *Parser { return &Parser{} }

// ProcessSpecFiles implements specparser.Parser: reads and parses every
// path, merging duplicate-named FuncSpecs across files by appending their
// Specs (a function's contract may be split across files).
func (p *Parser) ProcessSpecFiles(paths []string) (map[string]*sir.FuncSpec, error) {
	out := make(map[string]*sir.FuncSpec)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, rverrors.Wrapf(err, rverrors.InputMissing, "reading spec file %q", path)
		}
		pr, err := newParser(string(data))
		if err != nil {
			return nil, rverrors.Wrapf(err, rverrors.InputMissing, "lexing spec file %q", path)
		}
		specs, err := pr.parseFile()
		if err != nil {
			return nil, rverrors.Wrapf(err, rverrors.InputMissing, "parsing spec file %q", path)
		}
		for _, fs := range specs {
			if existing, ok := out[fs.FuncName]; ok {
				existing.Specs = append(existing.Specs, fs.Specs...)
				continue
			}
			out[fs.FuncName] = fs
		}
	}
	return out, nil
}
