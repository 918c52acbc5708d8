package stream

import (
	"github.com/udon-format/go-udon/arena"
	"github.com/udon-format/go-udon/token"
)

// state is what the parser expects next.
type state int

const (
	stLine      state = iota // indentation of a new line
	stLineStart              // first token of a line
	stContent                // inline content
	stHead                   // element head parts
	stAttrs                  // attributes after a head or line attribute
	stAttrValue              // optional value of a line attribute
	stArgs                   // directive arguments
	stBlock                  // {...} attribute block entries
	stValue                  // a value for the current target
	stClose                  // ']' closing an id, merge or reference
	stRawRest                // remainder of a raw directive line
)

var stateModes = [...]token.Mode{
	stLine:      token.ModeLine,
	stLineStart: token.ModeLineStart,
	stContent:   token.ModeContent,
	stHead:      token.ModeHead,
	stAttrs:     token.ModeAttrs,
	stAttrValue: token.ModeValueOpt,
	stArgs:      token.ModeValueOpt,
	stBlock:     token.ModeBlock,
	stValue:     token.ModeValue,
	stClose:     token.ModeValue,
	stRawRest:   token.ModeRawRest,
}

type frameKind int

const (
	frameElement frameKind = iota
	frameDirective
	frameEmbedded
)

// frame is an open construct. Elements and directives close by
// indentation, embedded elements by '}'.
type frame struct {
	kind      frameKind
	col       int
	start     int64
	raw       bool
	rawIndent int
}

// target says where a completed value goes.
type target int

const (
	tgtHeadID target = iota
	tgtLineAttr
	tgtBlockAttr
	tgtMerge
	tgtRef
	tgtArg
)

func (t target) bracketed() bool {
	return t == tgtHeadID || t == tgtMerge || t == tgtRef
}

type headState struct {
	embedded bool
	start    int64
	col      int
	stage    int // 0 before anything, 1 after a name, id or class, 2 after the suffix
	name     *arena.Slice
	id       Value
	classes  []arena.Slice
	suffix   *Suffix
}

type pendingKey struct {
	start, end int64
	name       arena.Slice
}

// segment maps one fed chunk to its place in the arena.
type segment struct {
	logical int64
	base    int64
	n       int64
}

func (p *Parser) mode() token.Mode {
	switch p.st {
	case stLine:
		if f := p.top(); f != nil && f.raw {
			p.sc.SetRawColumn(f.col)
			return token.ModeRawLine
		}
	case stContent:
		if p.embeds > 0 {
			return token.ModeBraced
		}
	case stValue:
		if len(p.arrays) > 0 {
			return token.ModeArray
		}
	}
	return stateModes[p.st]
}

func (p *Parser) top() *frame {
	if len(p.frames) == 0 {
		return nil
	}
	return &p.frames[len(p.frames)-1]
}

// Depth returns the number of open elements, directives and embedded
// elements.
func (p *Parser) Depth() int {
	return len(p.frames)
}
