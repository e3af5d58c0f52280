package cushion

// Document identifies a CouchDB document. Embed it in a struct to map the
// _id and _rev fields CouchDB attaches to every document:
//
//	type Album struct {
//		cushion.Document
//		Artist string `json:"artist"`
//		Title  string `json:"title"`
//	}
type Document struct {
	ID  string `json:"_id,omitempty"`
	Rev string `json:"_rev,omitempty"`
}
