package encode

import (
	"strings"

	"github.com/fatih/color"
	"github.com/udon-format/go-udon/stream"
)

type Colorable struct {
	Kind stream.Kind
	Attr ColorAttr
}

type ColorAttr int

const (
	KindColor ColorAttr = iota
	SpanColor
	FieldColor
	ValueColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, k := range stream.Kinds() {
		able := Colorable{Kind: k, Attr: SpanColor}
		colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()
		able.Attr = FieldColor
		colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
		able.Attr = KindColor
		switch {
		case k.IsStart() || k.IsEnd():
			colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		case k.IsValue():
			colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
		default:
			colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		}
	}
	able := Colorable{Attr: ValueColor}

	able.Kind = stream.KindInteger
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Kind = stream.KindFloat
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Kind = stream.KindNil
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()
	able.Kind = stream.KindBool
	colors.Map[able] = color.CyanString
	for _, k := range []stream.Kind{stream.KindString, stream.KindQuotedString, stream.KindText} {
		able.Kind = k
		colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	}
	able.Kind = stream.KindRawContent
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()
	able.Kind = stream.KindComment
	colors.Map[able] = color.BlueString
	able.Kind = stream.KindAttribute
	colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
	able.Kind = stream.KindAttributeMerge
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()

	able.Kind = stream.KindWarning
	colors.Map[able] = color.YellowString
	able.Attr = KindColor
	colors.Map[able] = color.YellowString
	able.Kind = stream.KindError
	colors.Map[able] = color.RedString
	able.Attr = ValueColor
	colors.Map[able] = color.RedString
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(k stream.Kind, a ColorAttr, s string) string {
	return c.Get(k, a)(s)
}

func (c *Colors) Get(k stream.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
