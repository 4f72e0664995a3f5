package docModel

// Page is one page of extracted text as supplied by the ingestion side.
type Page struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// Chunk is a bounded slice of a document's text, tagged with provenance.
// Immutable after creation; slot i of an index file corresponds to chunk i
// of its metadata file.
type Chunk struct {
	Content    string `json:"content"`
	FileID     string `json:"file_id"`
	FileName   string `json:"file_name"`
	PageNumber int    `json:"page_number,omitempty"`
}

// Match is a retrieved chunk with its squared L2 distance to the query.
type Match struct {
	Chunk
	Distance float32 `json:"distance"`
}

// AnswerResult is what the pipeline hands back to the boundary layer.
type AnswerResult struct {
	Query   string  `json:"query"`
	Context []Chunk `json:"context"`
	Answer  string  `json:"answer"`
}

// DocType classifies an upload by extension so ingestion picks the right
// text extractor.
type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var ERR DocType = "ERROR"

func Chunks(matches []Match) []Chunk {
	chunks := make([]Chunk, 0, len(matches))
	for _, m := range matches {
		chunks = append(chunks, m.Chunk)
	}
	return chunks
}
