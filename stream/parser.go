package stream

import (
	"fmt"

	"github.com/udon-format/go-udon/arena"
	"github.com/udon-format/go-udon/token"
)

func (p *Parser) step(t *token.Token) {
	switch p.st {
	case stLine:
		p.onLine(t)
	case stLineStart:
		p.onLineStart(t)
	case stContent:
		p.onContent(t)
	case stHead:
		p.onHead(t)
	case stAttrs:
		p.onAttrs(t)
	case stAttrValue:
		p.onAttrValue(t)
	case stArgs:
		p.onArgs(t)
	case stBlock:
		p.onBlock(t)
	case stValue:
		p.onValue(t)
	case stClose:
		p.onClose(t)
	case stRawRest:
		p.onRawRest(t)
	}
}

func (p *Parser) onLine(t *token.Token) {
	switch t.Type {
	case token.TEOF:
		p.end(t.Start)
	case token.TBlankLine:
		if f := p.top(); f != nil && f.raw {
			p.emit(&RawContent{Span: Span{t.Start, t.Start}, Content: p.empty()})
		}
	case token.TIndent:
		p.dedent(t.Col(), t.End)
		p.st = stLineStart
	case token.TRawLine:
		f := p.top()
		if f.rawIndent < 0 {
			f.rawIndent = t.Col()
		}
		r := token.Range{Start: t.Start + int64(min(t.Col(), f.rawIndent)), End: t.Body.End}
		p.emit(&RawContent{Span: rspan(r), Content: p.slice(r)})
	default:
		p.unexpected(t)
	}
}

func (p *Parser) onLineStart(t *token.Token) {
	switch t.Type {
	case token.TDirective:
		ds := &DirectiveStart{Span: tspan(t), Name: p.slice(t.Name)}
		if t.Has(token.FNamespace) {
			if string(p.sc.Bytes(t.NS)) == "raw" {
				ds.Raw = true
			} else {
				ns := p.slice(t.NS)
				ds.Namespace = &ns
			}
		}
		p.emit(ds)
		p.frames = append(p.frames, frame{
			kind:      frameDirective,
			col:       p.col(t.Start),
			start:     t.Start,
			raw:       ds.Raw,
			rawIndent: -1,
		})
		if ds.Raw {
			p.st = stRawRest
		} else {
			p.st = stArgs
		}
	case token.TAttrKey:
		p.openKey(t)
	case token.TMergeOpen:
		p.openTarget(tgtMerge, t.Start, stAttrs)
	case token.TSelector:
		p.openHead(false, t.Start)
	default:
		p.st = stContent
		p.onContent(t)
	}
}

func (p *Parser) onContent(t *token.Token) {
	switch t.Type {
	case token.TText:
		if !t.Body.Empty() {
			p.emit(&Text{Span: rspan(t.Body), Content: p.slice(t.Body)})
		}
	case token.TNewline:
		p.st = stLine
	case token.TBlockOpen:
		p.openHead(false, t.Start)
	case token.TEmbeddedOpen:
		p.openHead(true, t.Start)
	case token.TInterp:
		p.emit(&Interpolation{Span: tspan(t), Expression: p.slice(t.Body)})
	case token.TInlineDirective:
		id := &InlineDirective{Span: tspan(t), Name: p.slice(t.Name), Content: p.slice(t.Body)}
		if t.Has(token.FNamespace) {
			if string(p.sc.Bytes(t.NS)) == "raw" {
				id.Raw = true
			} else {
				ns := p.slice(t.NS)
				id.Namespace = &ns
			}
		}
		p.emit(id)
	case token.TRefOpen:
		p.openTarget(tgtRef, t.Start, stContent)
	case token.TComment, token.TInlineComment:
		p.emit(&Comment{Span: tspan(t), Content: p.slice(t.Body)})
	case token.TFreeform:
		p.emit(&FreeformStart{Span: Span{t.Start, t.Start + 3}})
		if !t.Body.Empty() {
			p.emit(&RawContent{Span: rspan(t.Body), Content: p.slice(t.Body)})
		}
		p.emit(&FreeformEnd{Span: Span{t.End - 3, t.End}})
	case token.TRCurl:
		if p.embeds == 0 {
			p.unexpected(t)
			return
		}
		p.frames = p.frames[:len(p.frames)-1]
		p.embeds--
		p.emit(&EmbeddedEnd{Span: tspan(t)})
	case token.TEOF:
		p.end(t.Start)
	default:
		p.unexpected(t)
	}
}

func (p *Parser) openHead(embedded bool, start int64) {
	p.hd = headState{embedded: embedded, start: start, col: p.col(start)}
	p.st = stHead
}

func (p *Parser) onHead(t *token.Token) {
	h := &p.hd
	switch t.Type {
	case token.TName:
		if h.stage != 0 {
			p.unexpected(t)
			return
		}
		n := p.slice(t.Name)
		h.name = &n
		h.stage = 1
	case token.THashID:
		if h.stage > 1 || h.id != nil {
			p.unexpected(t)
			return
		}
		h.id = &StringValue{Span: rspan(t.Name), Content: p.slice(t.Name), Raw: p.slice(t.Name)}
		h.stage = 1
	case token.TClass:
		if h.stage > 1 {
			p.unexpected(t)
			return
		}
		h.classes = append(h.classes, p.slice(t.Name))
		h.stage = 1
	case token.TLSquare:
		if h.stage > 1 || h.id != nil {
			p.unexpected(t)
			return
		}
		p.openTarget(tgtHeadID, t.Start, stHead)
	case token.TSuffix:
		if h.stage > 1 {
			p.unexpected(t)
			return
		}
		sfx := Suffix(p.sc.Bytes(t.Range())[0])
		h.suffix = &sfx
		h.stage = 2
	case token.THeadEnd:
		p.finishHead(t.Start)
		p.st = stAttrs
	case token.TEOF:
		if h.embedded {
			p.fail(ErrUnclosedText, h.start, t.Start)
			return
		}
		p.finishHead(t.Start)
		p.end(t.Start)
	default:
		p.unexpected(t)
	}
}

func (p *Parser) finishHead(at int64) {
	h := &p.hd
	head := Head{Name: h.name, ID: h.id, Classes: h.classes, Suffix: h.suffix}
	sp := Span{h.start, at}
	if h.embedded {
		p.emit(&EmbeddedStart{Span: sp, Head: head})
		p.frames = append(p.frames, frame{kind: frameEmbedded, col: h.col, start: h.start})
		p.embeds++
	} else {
		p.emit(&ElementStart{Span: sp, Head: head})
		p.frames = append(p.frames, frame{kind: frameElement, col: h.col, start: h.start})
	}
	p.hd = headState{}
}

func (p *Parser) onAttrs(t *token.Token) {
	switch t.Type {
	case token.TAttrKey:
		p.openKey(t)
	case token.TMergeOpen:
		p.openTarget(tgtMerge, t.Start, stAttrs)
	case token.TLCurl:
		p.blockOpen = t.Start
		p.st = stBlock
	case token.TAttrsEnd:
		p.st = stContent
	default:
		p.unexpected(t)
	}
}

func (p *Parser) openKey(t *token.Token) {
	p.key = pendingKey{start: t.Start, end: t.End, name: p.slice(t.Name)}
	p.st = stAttrValue
}

func (p *Parser) onAttrValue(t *token.Token) {
	if t.Type == token.TNoValue {
		p.emit(&Attribute{Span: Span{p.key.start, p.key.end}, Key: p.key.name})
		p.st = stAttrs
		return
	}
	p.tgt, p.tgtBack = tgtLineAttr, stAttrs
	p.st = stValue
	p.onValue(t)
}

func (p *Parser) onArgs(t *token.Token) {
	if t.Type == token.TNoValue {
		p.st = stContent
		return
	}
	p.tgt, p.tgtBack = tgtArg, stArgs
	p.st = stValue
	p.onValue(t)
}

func (p *Parser) onBlock(t *token.Token) {
	switch t.Type {
	case token.TKey:
		k := pendingKey{start: t.Start, end: t.Name.End, name: p.slice(t.Name)}
		if !t.Has(token.FValue) {
			p.emit(&Attribute{Span: Span{k.start, k.end}, Key: k.name})
			return
		}
		p.key = k
		p.tgt, p.tgtBack = tgtBlockAttr, stBlock
		p.st = stValue
	case token.TMergeOpen:
		p.openTarget(tgtMerge, t.Start, stBlock)
	case token.TRCurl:
		p.st = stAttrs
	case token.TEOF:
		p.fail(ErrUnclosed, p.blockOpen, t.Start)
	default:
		p.unexpected(t)
	}
}

func (p *Parser) openTarget(tgt target, open int64, back state) {
	p.tgt, p.tgtOpen, p.tgtBack = tgt, open, back
	p.tgtValue = nil
	p.st = stValue
}

func (p *Parser) onValue(t *token.Token) {
	switch t.Type {
	case token.TString, token.TQuoted, token.TBare:
		p.addValue(p.scalar(t))
	case token.TLSquare:
		if len(p.arrays) == 0 && p.tgt.bracketed() {
			p.unexpected(t)
			return
		}
		p.arrays = append(p.arrays, &Array{Span: Span{Start: t.Start}})
	case token.TRSquare:
		n := len(p.arrays)
		if n == 0 {
			p.unexpected(t)
			return
		}
		a := p.arrays[n-1]
		p.arrays = p.arrays[:n-1]
		a.End = t.End
		p.addValue(a)
	case token.TEOF:
		switch {
		case len(p.arrays) > 0:
			p.fail(ErrUnclosedArray, p.arrays[0].Start, t.Start)
		case p.tgt == tgtBlockAttr:
			p.fail(ErrUnclosed, p.blockOpen, t.Start)
		default:
			p.fail(ErrUnclosed, p.tgtOpen, t.Start)
		}
	default:
		p.unexpected(t)
	}
}

func (p *Parser) addValue(v Value) {
	if n := len(p.arrays); n > 0 {
		a := p.arrays[n-1]
		a.Items = append(a.Items, v)
		return
	}
	switch p.tgt {
	case tgtHeadID:
		p.hd.id = v
		p.st = stClose
	case tgtMerge, tgtRef:
		p.tgtValue = v
		p.st = stClose
	case tgtLineAttr, tgtBlockAttr:
		p.emit(&Attribute{Span: Span{p.key.start, v.Pos().End}, Key: p.key.name, Value: v})
		p.st = p.tgtBack
	case tgtArg:
		p.emitValue(v)
		p.st = stArgs
	}
}

// emitValue emits a standalone value; arrays are flattened into
// ArrayStart, items and ArrayEnd.
func (p *Parser) emitValue(v Value) {
	a, ok := v.(*Array)
	if !ok {
		p.emit(v.(Event))
		return
	}
	p.emit(&ArrayStart{Span: Span{a.Start, a.Start + 1}})
	for _, item := range a.Items {
		p.emitValue(item)
	}
	p.emit(&ArrayEnd{Span: Span{a.End - 1, a.End}})
}

func (p *Parser) onClose(t *token.Token) {
	switch t.Type {
	case token.TRSquare:
		switch p.tgt {
		case tgtHeadID:
			p.hd.stage = 1
		case tgtMerge:
			p.emit(&AttributeMerge{Span: Span{p.tgtOpen, t.End}, ID: p.tgtValue})
		case tgtRef:
			p.emit(&IdReference{Span: Span{p.tgtOpen, t.End}, ID: p.tgtValue})
		}
		p.tgtValue = nil
		p.st = p.tgtBack
	case token.TEOF:
		p.fail(ErrUnclosed, p.tgtOpen, t.Start)
	default:
		p.unexpected(t)
	}
}

func (p *Parser) onRawRest(t *token.Token) {
	if t.Type != token.TRawRest {
		p.unexpected(t)
		return
	}
	if !t.Body.Empty() {
		p.emit(&RawContent{Span: rspan(t.Body), Content: p.slice(t.Body)})
	}
	p.st = stLine
}

// scalar builds the value event for a string, quoted or bare token.
func (p *Parser) scalar(t *token.Token) Value {
	sp := tspan(t)
	raw := p.slice(t.Range())
	switch t.Type {
	case token.TString:
		if !t.Has(token.FEscape) {
			return &StringValue{Span: sp, Content: p.slice(t.Body), Raw: raw}
		}
		body := p.sc.Bytes(t.Body)
		dec, bad := token.Unescape(make([]byte, 0, len(body)), body)
		for _, b := range bad {
			p.warn(t.Body.Start+int64(b), fmt.Sprintf("unknown escape %q", body[b:b+2]))
		}
		return &StringValue{Span: sp, Content: p.store(dec), Raw: raw}
	case token.TQuoted:
		return &QuotedStringValue{Span: sp, Content: p.slice(t.Body), Raw: raw}
	}
	sc := token.ParseScalar(p.sc.Bytes(t.Range()))
	switch sc.Kind {
	case token.ScalarNil:
		return &NilValue{Span: sp, Raw: raw}
	case token.ScalarBool:
		return &BoolValue{Span: sp, Value: sc.Bool, Raw: raw}
	case token.ScalarInt:
		return &IntegerValue{Span: sp, Value: sc.Int, Raw: raw}
	case token.ScalarFloat:
		return &FloatValue{Span: sp, Value: sc.Float, Raw: raw}
	case token.ScalarRational:
		return &RationalValue{Span: sp, Numerator: sc.Num, Denominator: sc.Den, Raw: raw}
	case token.ScalarComplex:
		return &ComplexValue{Span: sp, Real: sc.Real, Imag: sc.Imag, Raw: raw}
	}
	return &StringValue{Span: sp, Content: raw, Raw: raw}
}

// dedent closes the elements and directives at or right of col.
func (p *Parser) dedent(col int, at int64) {
	for {
		f := p.top()
		if f == nil || f.kind == frameEmbedded || f.col < col {
			return
		}
		p.pop(at)
	}
}

func (p *Parser) pop(at int64) {
	f := p.frames[len(p.frames)-1]
	p.frames = p.frames[:len(p.frames)-1]
	sp := Span{at, at}
	switch f.kind {
	case frameElement:
		p.emit(&ElementEnd{Span: sp})
	case frameDirective:
		p.emit(&DirectiveEnd{Span: sp})
	}
}

// end handles the end of input outside any unfinished token.
func (p *Parser) end(at int64) {
	if p.embeds > 0 {
		for i := len(p.frames) - 1; i >= 0; i-- {
			if p.frames[i].kind == frameEmbedded {
				p.fail(ErrUnclosedText, p.frames[i].start, at)
				return
			}
		}
	}
	for len(p.frames) > 0 {
		p.pop(at)
	}
	p.done = true
}

func (p *Parser) col(off int64) int {
	return int(off - p.sc.LineStart())
}

func (p *Parser) unexpected(t *token.Token) {
	p.fail(ErrUnexpectedChar, t.Start, t.Start+1)
}

func tspan(t *token.Token) Span {
	return Span{t.Start, t.End}
}

func rspan(r token.Range) Span {
	return Span{r.Start, r.End}
}

func (p *Parser) empty() arena.Slice {
	s, _ := p.arena.Slice(0, 0)
	return s
}
