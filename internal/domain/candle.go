package domain

// CandleSelection is the in-progress build of a custom candle. Unselected slots are nil.
type CandleSelection struct {
	Container          *Material  `json:"container,omitempty"`
	Wick               *Material  `json:"wick,omitempty"`
	Wax                *Material  `json:"wax,omitempty"`
	Addons             []Material `json:"addons"`
	CustomDescription  string     `json:"customDescription,omitempty"`
	CustomImageDataURI string     `json:"customImageDataUri,omitempty"`
}

// Complete reports whether container, wick and wax are all chosen.
func (s CandleSelection) Complete() bool {
	return s.Container != nil && s.Wick != nil && s.Wax != nil
}
