package canvas

import "strings"

// Section describes one level-2 block of the canvas.
type Section struct {
	Field Field
	// Label is the heading text used in Markdown documents.
	Label string
	// Name is the English name shown next to the label.
	Name string
	// Hint is the placeholder shown while the value is empty.
	Hint string
}

// sections is the single source for serialization order and label lookup.
var sections = []Section{
	{Field: Problem, Label: "課題", Name: "Problem", Hint: "解決すべき課題トップ3を記入"},
	{Field: ExistingAlternatives, Label: "代替品", Name: "Existing Alternatives", Hint: "現在の代替手段"},
	{Field: Solution, Label: "ソリューション", Name: "Solution", Hint: "課題に対する解決策"},
	{Field: KeyMetrics, Label: "主要指標", Name: "Key Metrics", Hint: "測定すべき重要な指標"},
	{Field: UniqueValueProposition, Label: "独自の価値提案", Name: "Unique Value Proposition", Hint: "明確で説得力のあるメッセージ"},
	{Field: HighLevelConcept, Label: "ハイレベルコンセプト", Name: "High-Level Concept", Hint: "簡潔に言い換えると..."},
	{Field: UnfairAdvantage, Label: "圧倒的な優位性", Name: "Unfair Advantage", Hint: "簡単に真似できない優位性"},
	{Field: Channels, Label: "チャネル", Name: "Channels", Hint: "顧客へのリーチ方法"},
	{Field: CustomerSegments, Label: "顧客セグメント", Name: "Customer Segments", Hint: "ターゲット顧客"},
	{Field: EarlyAdopters, Label: "アーリーアダプター", Name: "Early Adopters", Hint: "最初の顧客"},
	{Field: CostStructure, Label: "コスト構造", Name: "Cost Structure", Hint: "主要なコスト"},
	{Field: RevenueStreams, Label: "収益の流れ", Name: "Revenue Streams", Hint: "収益源"},
}

// ProductNameHint is the placeholder for the product name input.
const ProductNameHint = "プロダクト名を入力"

var (
	allFields   []Field
	byLabel     = make(map[string]Field, len(sections))
	byField     = make(map[Field]Section, len(sections))
	fieldLookup = make(map[string]Field, 3*len(sections)+2)
)

func init() {
	allFields = append(allFields, ProductName)
	fieldLookup[strings.ToLower(string(ProductName))] = ProductName
	fieldLookup["product name"] = ProductName
	for _, s := range sections {
		allFields = append(allFields, s.Field)
		byLabel[s.Label] = s.Field
		byField[s.Field] = s
		fieldLookup[strings.ToLower(string(s.Field))] = s.Field
		fieldLookup[strings.ToLower(s.Name)] = s.Field
		fieldLookup[s.Label] = s.Field
	}
}

// Sections returns the 12 sections in document order.
func Sections() []Section {
	return append([]Section(nil), sections...)
}

// Fields returns all 13 fields, productName first.
func Fields() []Field {
	return append([]Field(nil), allFields...)
}

// FieldForLabel maps a heading label to its field.
func FieldForLabel(label string) (Field, bool) {
	f, ok := byLabel[label]
	return f, ok
}

// LabelFor returns the heading label of f, or "" for productName.
func LabelFor(f Field) string {
	return byField[f].Label
}

// SectionFor returns the section metadata of f. productName has none.
func SectionFor(f Field) (Section, bool) {
	s, ok := byField[f]
	return s, ok
}

// ParseField accepts a JSON key, an English name or a heading label.
func ParseField(s string) (Field, bool) {
	s = strings.TrimSpace(s)
	if f, ok := fieldLookup[s]; ok {
		return f, true
	}
	f, ok := fieldLookup[strings.ToLower(s)]
	return f, ok
}

// DisplayName is the label for sections and "Product Name" for the title.
func (f Field) DisplayName() string {
	if s, ok := byField[f]; ok {
		return s.Label + " (" + s.Name + ")"
	}
	if f == ProductName {
		return "Product Name"
	}
	return string(f)
}
