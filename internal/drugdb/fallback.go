package drugdb

import "strings"

// fallbackDrugs is the bundled list of common medications served when the
// search service is unreachable.
var fallbackDrugs = []SearchResult{
	{Name: "Lisinopril", RxCUI: "29046"},
	{Name: "Atorvastatin", RxCUI: "83367"},
	{Name: "Metformin", RxCUI: "6809"},
	{Name: "Amlodipine", RxCUI: "17767"},
	{Name: "Levothyroxine", RxCUI: "10582"},
	{Name: "Omeprazole", RxCUI: "7646"},
	{Name: "Losartan", RxCUI: "52486"},
	{Name: "Gabapentin", RxCUI: "25480"},
	{Name: "Hydrochlorothiazide", RxCUI: "5487"},
	{Name: "Sertraline", RxCUI: "36437"},
	{Name: "Simvastatin", RxCUI: "36567"},
	{Name: "Ibuprofen", RxCUI: "5640"},
	{Name: "Acetaminophen", RxCUI: "161"},
	{Name: "Albuterol", RxCUI: "435"},
	{Name: "Cetirizine", RxCUI: "20610"},
}

// FallbackDrugs filters the bundled list by a case-insensitive substring.
func FallbackDrugs(query string) []SearchResult {
	query = strings.ToLower(query)
	var matches []SearchResult
	for _, d := range fallbackDrugs {
		if strings.Contains(strings.ToLower(d.Name), query) {
			matches = append(matches, d)
		}
	}
	return matches
}
