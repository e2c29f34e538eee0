package types

type RenderConfig struct {
	MermaidProvider string
	MermaidScale    float64
	D2Scale         float64
	D2Format        string
	HighlightStyle  string
	Features        []string
}
