package transform

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/catalog/pidreg/internal/domain/handle"
)

// onlineResourceRule places the handle in a digital transfer option online resource,
// the layout shared by the ISO 19139 and ISO 19115-3 encodings.
type onlineResourceRule struct {
	// transferOptions is the element path from the root down to MD_DigitalTransferOptions
	transferOptions []string
	// rootSuccessors are root children that must stay after the distribution section
	rootSuccessors []string
	onLine         string
	resource       string
	linkage        []string
	protocol       []string
	name           []string
}

var iso19139Rule = onlineResourceRule{
	transferOptions: []string{
		"gmd:distributionInfo", "gmd:MD_Distribution",
		"gmd:transferOptions", "gmd:MD_DigitalTransferOptions",
	},
	rootSuccessors: []string{
		"gmd:dataQualityInfo", "gmd:portrayalCatalogueInfo", "gmd:metadataConstraints",
		"gmd:applicationSchemaInfo", "gmd:metadataMaintenance", "gmd:series",
		"gmd:describes", "gmd:propertyType", "gmd:featureType", "gmd:featureAttribute",
	},
	onLine:   "gmd:onLine",
	resource: "gmd:CI_OnlineResource",
	linkage:  []string{"gmd:linkage", "gmd:URL"},
	protocol: []string{"gmd:protocol", "gco:CharacterString"},
	name:     []string{"gmd:name", "gco:CharacterString"},
}

var iso19115Part3Rule = onlineResourceRule{
	transferOptions: []string{
		"mdb:distributionInfo", "mrd:MD_Distribution",
		"mrd:transferOptions", "mrd:MD_DigitalTransferOptions",
	},
	rootSuccessors: []string{
		"mdb:dataQualityInfo", "mdb:resourceLineage", "mdb:portrayalCatalogueInfo",
		"mdb:metadataConstraint", "mdb:applicationSchemaInfo", "mdb:metadataMaintenance",
		"mdb:acquisitionInformation",
	},
	onLine:   "mrd:onLine",
	resource: "cit:CI_OnlineResource",
	linkage:  []string{"cit:linkage", "gco:CharacterString"},
	protocol: []string{"cit:protocol", "gco:CharacterString"},
	name:     []string{"cit:name", "gco:CharacterString"},
}

func (r onlineResourceRule) Insert(root *etree.Element, params handle.InsertParams) error {
	if existing := r.find(root, params.Protocol); existing != nil {
		setPath(existing, r.linkage, params.HandleURL)
		setPath(existing, r.name, params.Name)
		return nil
	}

	container := root
	for i, tag := range r.transferOptions {
		next := container.SelectElement(tag)
		if next == nil {
			next = etree.NewElement(tag)
			successors := []string(nil)
			if i == 0 {
				successors = r.rootSuccessors
			}
			insertBefore(container, next, successors)
		}
		container = next
	}

	resource := container.CreateElement(r.onLine).CreateElement(r.resource)
	setPath(resource, r.linkage, params.HandleURL)
	setPath(resource, r.protocol, params.Protocol)
	setPath(resource, r.name, params.Name)
	return nil
}

func (r onlineResourceRule) Extract(root *etree.Element, protocol string) string {
	if res := r.find(root, protocol); res != nil {
		return textAt(res, r.linkage)
	}
	return ""
}

// find returns the first online resource declared with protocol
func (r onlineResourceRule) find(root *etree.Element, protocol string) *etree.Element {
	for _, res := range root.FindElements(".//" + r.resource) {
		if strings.EqualFold(textAt(res, r.protocol), protocol) {
			return res
		}
	}
	return nil
}

// dublinCoreRule stores the handle as a dc:identifier tagged with the protocol as scheme
type dublinCoreRule struct{}

func (dublinCoreRule) Insert(root *etree.Element, params handle.InsertParams) error {
	id := root.FindElement("./dc:identifier[@scheme='" + params.Protocol + "']")
	if id == nil {
		id = root.CreateElement("dc:identifier")
		id.CreateAttr("scheme", params.Protocol)
	}
	id.SetText(params.HandleURL)
	return nil
}

func (dublinCoreRule) Extract(root *etree.Element, protocol string) string {
	if id := root.FindElement("./dc:identifier[@scheme='" + protocol + "']"); id != nil {
		return strings.TrimSpace(id.Text())
	}
	return ""
}

// setPath walks path below el, creating missing elements, and sets the text of the last one
func setPath(el *etree.Element, path []string, value string) {
	cur := el
	for _, tag := range path {
		next := cur.SelectElement(tag)
		if next == nil {
			next = cur.CreateElement(tag)
		}
		cur = next
	}
	cur.SetText(value)
}

func textAt(el *etree.Element, path []string) string {
	cur := el
	for _, tag := range path {
		cur = cur.SelectElement(tag)
		if cur == nil {
			return ""
		}
	}
	return strings.TrimSpace(cur.Text())
}

// insertBefore adds child to parent ahead of the first existing element named in successors
func insertBefore(parent, child *etree.Element, successors []string) {
	for _, existing := range parent.ChildElements() {
		for _, tag := range successors {
			if existing.FullTag() == tag {
				parent.InsertChildAt(existing.Index(), child)
				return
			}
		}
	}
	parent.AddChild(child)
}
