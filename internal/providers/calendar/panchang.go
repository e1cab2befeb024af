package calendar

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"nepalidata-go/internal/providers/common"
)

const defaultPanchangURL = "https://www.ashesh.com.np/panchang/widget.php?header_title=Nepali%20Panchang&header_color=e6e5e2&api=332257p082"

// Panchang is today's almanac detail. It is scraped on demand and never
// persisted; the widget republishes it daily.
type Panchang struct {
	NepaliDate     string `json:"nepali_date"`
	EnglishDate    string `json:"english_date"`
	NepalSambat    string `json:"nepal_sambat"`
	Tithi          string `json:"tithi"`
	Paksha         string `json:"paksha"`
	Nakshatra      string `json:"nakshatra"`
	Yoga           string `json:"yoga"`
	Karana         string `json:"karana"`
	MoonRashi      string `json:"moon_rashi"`
	Dinman         string `json:"dinman"`
	Ritu           string `json:"ritu"`
	Ayana          string `json:"ayana"`
	Sunrise        string `json:"sunrise"`
	Sunset         string `json:"sunset"`
	Moonrise       string `json:"moonrise"`
	Moonset        string `json:"moonset"`
	NepaliWeekday  string `json:"nepali_weekday"`
	EnglishWeekday string `json:"english_weekday"`
	Event          string `json:"event"`
}

var (
	sunTimeRe  = regexp.MustCompile(`\d+:\d+`)
	moonTimeRe = regexp.MustCompile(`\d+:\d+ (?:AM|PM)`)
)

// WithPanchangURL points Today at a different endpoint, for tests.
func (s *Scraper) WithPanchangURL(url string) *Scraper {
	s.panchangURL = url
	return s
}

// Today scrapes the panchang widget. The data sits in ".event" rows as
// label/value div pairs (ev_left / ev_right), keyed by Nepali labels.
func (s *Scraper) Today(ctx context.Context) (Panchang, error) {
	doc, err := common.FetchDocument(ctx, s.client, s.panchangURL, nil)
	if err != nil {
		return Panchang{}, err
	}
	p, ok := parsePanchang(doc)
	if !ok {
		return Panchang{}, fmt.Errorf("panchang: no label/value rows found")
	}
	return p, nil
}

func parsePanchang(doc *goquery.Document) (Panchang, bool) {
	rows := doc.Find(".event .ev_left, .event .ev_right")
	if rows.Length() == 0 {
		return Panchang{}, false
	}

	data := map[string]string{}
	texts := make([]string, 0, rows.Length())
	rows.Each(func(_ int, sel *goquery.Selection) {
		texts = append(texts, common.CleanText(sel.Text()))
	})
	for i := 0; i+1 < len(texts); i += 2 {
		data[texts[i]] = texts[i+1]
	}

	p := Panchang{
		NepaliDate:  data["वि.सं"],
		EnglishDate: data["ईसवी"],
		NepalSambat: data["नेपाल संवत"],
		Tithi:       data["तिथि"],
		Paksha:      data["पक्ष"],
		Nakshatra:   data["नक्षत्र"],
		Yoga:        data["योग"],
		Karana:      data["करण"],
		MoonRashi:   data["चन्द्र राशि"],
		Dinman:      data["दिनमान"],
		Ritu:        data["ऋतु"],
		Ayana:       data["आयान"],
	}

	if times := sunTimeRe.FindAllString(data["सूर्य"], 2); len(times) >= 2 {
		p.Sunrise, p.Sunset = times[0], times[1]
	}
	if times := moonTimeRe.FindAllString(data["चन्द्र"], 2); len(times) >= 2 {
		p.Moonrise, p.Moonset = times[0], times[1]
	}

	if parts := strings.Fields(p.NepaliDate); len(parts) > 3 {
		p.NepaliWeekday = parts[3]
	}
	if parts := strings.Fields(p.EnglishDate); len(parts) > 3 {
		p.EnglishWeekday = parts[3]
	}

	// The day's headline event is the tithi up to its "upto" clause.
	if p.Tithi != "" {
		p.Event = strings.TrimSpace(strings.SplitN(p.Tithi, "upto", 2)[0])
	}
	return p, true
}
