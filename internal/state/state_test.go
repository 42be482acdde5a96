package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionNotifiesOnChangeOnly(t *testing.T) {
	s := NewSession("doc.xml", nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.SetSelectedPath("/root")
	select {
	case got := <-ch:
		assert.Equal(t, "/root", got)
	default:
		t.Fatalf("expected a notification")
	}

	s.SetSelectedPath("/root")
	select {
	case got := <-ch:
		t.Fatalf("unexpected notification %q", got)
	default:
	}
	assert.Equal(t, "/root", s.SelectedPath())
}

func TestSessionCoalescesPendingNotifications(t *testing.T) {
	s := NewSession("", nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.SetSelectedPath("/a")
	s.SetSelectedPath("/b")
	require.Len(t, ch, 1)
	<-ch
	assert.Equal(t, "/b", s.SelectedPath(), "listeners read the current value")
}

func TestSessionUnsubscribeClosesChannel(t *testing.T) {
	s := NewSession("", nil)
	ch, cancel := s.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	s.SetSelectedPath("/after")
}

func TestSessionPosition(t *testing.T) {
	s := NewSession("a.xml", nil)
	assert.Equal(t, "a.xml", s.Position())
	s.SetPosition("b.xml")
	assert.Equal(t, "b.xml", s.Position())
	require.NotNil(t, s.Template())
	assert.True(t, s.Template().CanAutoModify())
}

func TestTemplateAddColumn(t *testing.T) {
	tpl := NewTemplate(true)
	first := tpl.AddColumn("/catalog/item[2]/@sku")
	assert.Equal(t, Column{Name: "sku", Path: "/catalog/item[2]/@sku"}, first)

	again := tpl.AddColumn("/catalog/item[2]/@sku")
	assert.Equal(t, first, again)

	second := tpl.AddColumn("/catalog/item[1]/@sku")
	assert.Equal(t, "sku_2", second.Name)

	text := tpl.AddColumn("/catalog/note/text()[1]")
	assert.Equal(t, "note", text.Name)

	assert.Len(t, tpl.Columns(), 3)
	assert.False(t, NewTemplate(false).CanAutoModify())
	assert.Nil(t, NewTemplate(true).Columns())
}
