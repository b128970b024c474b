package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"jdisasm/internal/ui/colorize"
)

func loadedModel(t *testing.T) model {
	t.Helper()
	t.Setenv("JDISASM_NO_COLOR", "1")
	path := writeClass(t, t.TempDir(), "demo/Empty")
	cfg := Config{Indent: "  ", TabLevel: 1, Theme: "dark"}

	m := NewModel(path, cfg)
	require.True(t, m.loading)

	msg := loadClassesCmd(path, cfg)()
	updated, _ := m.Update(msg)
	return updated.(model)
}

func TestModelLoadsMethods(t *testing.T) {
	m := loadedModel(t)
	require.False(t, m.loading)
	require.NoError(t, m.loadErr)
	require.Equal(t, 1, m.methodCount)
	require.Len(t, m.methodsList.Items(), 1)

	item := m.methodsList.Items()[0].(methodItem)
	require.Equal(t, "<init>", item.listing.Name)
	require.Equal(t, "demo.Empty <init>", item.FilterValue())
	require.Contains(t, m.methodsList.Title, "Empty")
}

func TestModelLoadError(t *testing.T) {
	m := NewModel("/nonexistent/Missing.class", Config{Theme: "dark"})
	updated, _ := m.Update(classesMsg{err: errors.New("boom")})
	m = updated.(model)
	require.Error(t, m.loadErr)
	require.Zero(t, m.methodCount)
	require.Equal(t, viewOverview, m.nextMode(1))
}

func TestModelCyclesPanes(t *testing.T) {
	m := loadedModel(t)
	require.Equal(t, viewOverview, m.mode)

	m.mode = m.nextMode(1)
	require.Equal(t, viewMethods, m.mode)
	// No method selected yet, so the code pane is skipped
	m.mode = m.nextMode(1)
	require.Equal(t, viewOverview, m.mode)

	m.showMethod(m.methodsList.Items()[0].(methodItem))
	m.mode = m.nextMode(-1)
	require.Equal(t, viewCode, m.mode)
	m.mode = m.nextMode(-1)
	require.Equal(t, viewMethods, m.mode)
}

func TestMethodView(t *testing.T) {
	m := loadedModel(t)
	item := m.methodsList.Items()[0].(methodItem)

	view := colorize.StripANSI(methodView(item, m.cfg))
	lines := strings.Split(view, "\n")
	require.Equal(t, []string{
		"// public class demo.Empty extends java.lang.Object",
		"public <init>() : void",
		"  max stack 1, max locals 1, code length 2",
		"  0  aload_0",
		"  1  return",
	}, lines)
}

func TestModelView(t *testing.T) {
	m := loadedModel(t)
	require.Contains(t, colorize.StripANSI(m.View()), "M: methods")

	m.mode = viewMethods
	require.Contains(t, colorize.StripANSI(m.View()), "Enter: view code")
}
