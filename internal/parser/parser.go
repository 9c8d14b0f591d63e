package parser

import (
	"fortio.org/safecast"

	"arrowc/internal/ast"
	"arrowc/internal/diag"
	"arrowc/internal/lexer"
	"arrowc/internal/source"
	"arrowc/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
}

// Parser holds the state for one file.
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	file     ast.FileID
	src      *source.File
	opts     Options
	lastSpan source.Span
	mute     int // >0 while parsing speculatively
	splits   []splitRec
	ns       string
}

// ParseFile lexes and parses one source file into arenas.
func ParseFile(f *source.File, arenas *ast.Builder, opts Options) Result {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	toks := lexer.New(f, opts.Reporter).All()
	p := Parser{
		toks:   toks,
		arenas: arenas,
		src:    f,
		opts:   opts,
	}
	fileSpan := source.Span{File: f.ID, Start: 0, End: safecast.MustConv[uint32](len(f.Content))}
	p.file = arenas.NewFile(f.Path, fileSpan)
	p.lastSpan = source.Span{File: f.ID}
	p.parseItems()
	return Result{File: p.file}
}

func (p *Parser) parseItems() {
	for !p.at(token.EOF) {
		start := p.pos
		if !p.parseItem() {
			p.resyncTop(start)
		}
	}
}

// parseItem dispatches on the first token of a top-level construct.
func (p *Parser) parseItem() bool {
	exported := false
	if p.at(token.KwExport) {
		p.advance()
		exported = true
	}
	var id ast.ItemID
	switch p.peek().Kind {
	case token.KwImport:
		id = p.parseImport()
	case token.KwNamespace:
		return p.parseNamespace()
	case token.KwClass:
		id = p.parseClass()
	case token.KwInterface:
		id = p.parseInterface()
	case token.KwFunction:
		id = p.parseFuncItem()
	case token.Semicolon:
		p.advance()
		return true
	default:
		p.err(diag.SynUnexpectedTopLevel, "expected import, namespace, class, interface or function, got "+describe(p.peek()))
		return false
	}
	if !id.IsValid() {
		return false
	}
	item := p.arenas.Item(id)
	item.Exported = exported
	item.Namespace = p.ns
	p.arenas.PushItem(p.file, id)
	return true
}

// resyncTop skips to the next token that can start an item.
func (p *Parser) resyncTop(start int) {
	if p.pos == start {
		p.advance()
	}
	for !p.at(token.EOF) && !isTopLevelStarter(p.peek().Kind) {
		p.advance()
	}
}

func isTopLevelStarter(k token.Kind) bool {
	switch k {
	case token.KwImport, token.KwNamespace, token.KwExport, token.KwClass,
		token.KwInterface, token.KwFunction:
		return true
	}
	return false
}
