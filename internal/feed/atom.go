// Package feed renders the event list as an Atom document.
package feed

import (
	"time"

	"github.com/beevik/etree"

	"github.com/baharkarakas/event-hub/internal/models"
)

const atomNS = "http://www.w3.org/2005/Atom"

type Info struct {
	Title   string
	BaseURL string // links are BaseURL + "/event/" + id
	Updated time.Time
}

func Atom(info Info, events []models.Event) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("feed")
	root.CreateAttr("xmlns", atomNS)
	root.CreateElement("title").SetText(info.Title)
	root.CreateElement("id").SetText(info.BaseURL + "/event/feed")
	self := root.CreateElement("link")
	self.CreateAttr("rel", "self")
	self.CreateAttr("href", info.BaseURL+"/event/feed")

	updated := info.Updated
	for _, e := range events {
		if e.UpdatedAt.After(updated) {
			updated = e.UpdatedAt
		}
	}
	root.CreateElement("updated").SetText(updated.UTC().Format(time.RFC3339))

	for _, e := range events {
		entry := root.CreateElement("entry")
		entry.CreateElement("id").SetText("urn:uuid:" + e.ID)
		entry.CreateElement("title").SetText(e.Title)
		link := entry.CreateElement("link")
		link.CreateAttr("href", info.BaseURL+"/event/"+e.ID)
		entry.CreateElement("updated").SetText(e.UpdatedAt.UTC().Format(time.RFC3339))
		entry.CreateElement("published").SetText(e.CreatedAt.UTC().Format(time.RFC3339))
		cat := entry.CreateElement("category")
		cat.CreateAttr("term", string(e.Type))
		if e.Organizer != nil {
			entry.CreateElement("author").CreateElement("name").SetText(e.Organizer.Username)
		}
		entry.CreateElement("summary").SetText(summary(e))
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func summary(e models.Event) string {
	s := e.Date.String()
	if e.Time != nil {
		s += " " + *e.Time
	}
	if e.Location != nil {
		s += " @ " + *e.Location
	}
	return s + " | " + e.Description
}
