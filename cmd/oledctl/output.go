//go:build !tinygo

package main

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"

	"oledui/internal/protocol"
	"oledui/internal/store"
)

var (
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	flagOn     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	flagOff    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type output struct {
	w io.Writer
}

func newOutput(w io.Writer) *output { return &output{w: w} }

func (o *output) line(s string) { lipgloss.Fprintln(o.w, s) }

func (o *output) kv(k, v string) {
	lipgloss.Fprintln(o.w, keyStyle.Render(k)+valueStyle.Render(v))
}

func (o *output) ok(what string) {
	lipgloss.Fprintln(o.w, okStyle.Render("ok")+" "+what)
}

func flagText(name string, on bool) string {
	if on {
		return flagOn.Render(name)
	}
	return flagOff.Render(name)
}

func (o *output) status(st protocol.Status) {
	o.kv("flags", flagText("init", st.Initialized())+" "+flagText("dirty", st.Dirty())+" "+flagText("overlay", st.Overlay()))
	o.kv("elements", strconv.Itoa(int(st.Elements)))
	o.kv("screens", strconv.Itoa(int(st.Screens)))
	o.kv("active", strconv.Itoa(int(st.Active)))
	o.kv("version", strconv.Itoa(int(st.Version)))
	if st.Dirty() {
		o.kv("changed", strconv.Itoa(int(st.DirtyID)))
	}
}

// describe renders the type-specific part of an element state.
func describe(es protocol.ElementState) string {
	switch es.Type {
	case store.TypeText:
		return strconv.Quote(string(es.Text))
	case store.TypeTrigger:
		return "version " + strconv.Itoa(int(es.Version))
	case store.TypeBarrel:
		return "value " + strconv.Itoa(int(es.Value))
	default:
		return "-"
	}
}

func (o *output) element(id store.ID, es protocol.ElementState) {
	lipgloss.Fprintln(o.w, idStyle.Render(fmt.Sprintf("#%-3d", id))+" "+
		keyStyle.Render(es.Type.String())+valueStyle.Render(describe(es)))
}
