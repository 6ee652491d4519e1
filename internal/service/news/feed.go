package news

import (
	"encoding/xml"
	"strings"
)

type rssItem struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

// feedItems collects every <item> element in document order, at any depth.
type feedItems []rssItem

func (f *feedItems) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local != "item" {
				depth++
				continue
			}
			var item rssItem
			if err = d.DecodeElement(&item, &el); err != nil {
				return err
			}
			item.Title = strings.TrimSpace(item.Title)
			item.Link = strings.TrimSpace(item.Link)
			*f = append(*f, item)
		case xml.EndElement:
			depth--
		}
	}
	return nil
}
