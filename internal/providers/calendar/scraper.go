// Package calendar scrapes the Bikram Sambat month grid and today's
// panchang from the ashesh.com.np widgets.
package calendar

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"nepalidata-go/internal/model"
	"nepalidata-go/internal/normalize"
	"nepalidata-go/internal/providers/common"
	"nepalidata-go/internal/reconcile"
	"nepalidata-go/internal/services/ingest"
)

const defaultBaseURL = "https://www.ashesh.com.np/nepali-calendar/calendar.php?api=332256p082"

// bsMonthNames maps month numbers to the Latin-script names the widget URL
// expects; the widget header echoes them back upper-cased.
var bsMonthNames = [13]string{"",
	"Baishakh", "Jestha", "Ashadh", "Shrawan", "Bhadra", "Ashwin",
	"Kartik", "Mangsir", "Poush", "Magh", "Falgun", "Chaitra",
}

// Column 0 of the grid is always the first day of the source's week, which
// is Sunday; weekday comes from position, never from cell content.
var weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var nepaliWeekdays = map[string]string{
	"Sunday":    "आइतवार",
	"Monday":    "सोमवार",
	"Tuesday":   "मङ्गलवार",
	"Wednesday": "बुधवार",
	"Thursday":  "बिहिवार",
	"Friday":    "शुक्रवार",
	"Saturday":  "शनिवार",
}

var regionChain = []common.Region{
	common.BySelector("calendar-table", "#calendartable"),
	common.DensestTable("densest-table"),
	common.WholeDocument("document"),
}

type Scraper struct {
	client      *http.Client
	rec         *reconcile.Reconciler
	baseURL     string
	panchangURL string
	now         func() time.Time
}

func NewScraper(client *http.Client, rec *reconcile.Reconciler) *Scraper {
	return &Scraper{
		client:      client,
		rec:         rec,
		baseURL:     defaultBaseURL,
		panchangURL: defaultPanchangURL,
		now:         time.Now,
	}
}

// WithBaseURL points the scraper at a different endpoint, for tests.
func (s *Scraper) WithBaseURL(url string) *Scraper {
	s.baseURL = url
	return s
}

func (s *Scraper) Source() string {
	return "calendar"
}

func (s *Scraper) Scrape(ctx context.Context, scope ingest.Scope) (int, error) {
	year, month := scope.Year, scope.Month
	if year == 0 || month == 0 {
		now := s.now()
		year, month = now.Year(), int(now.Month())
	}

	months := [][2]int{{year, month}}
	if scope.NextMonth {
		ny, nm := year, month+1
		if nm > 12 {
			ny, nm = ny+1, 1
		}
		months = append(months, [2]int{ny, nm})
	}

	docs := make([]*goquery.Document, len(months))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(2)
	for i, ym := range months {
		i, ym := i, ym
		group.Go(func() error {
			doc, err := common.FetchDocument(gctx, s.client, s.monthURL(ym[0], ym[1]), nil)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}

	saved := 0
	for i, ym := range months {
		saved += s.processMonth(ctx, docs[i], ym[0], ym[1])
	}
	return saved, nil
}

func (s *Scraper) monthURL(year, month int) string {
	name := bsMonthNames[1]
	if month >= 1 && month <= 12 {
		name = bsMonthNames[month]
	}
	return fmt.Sprintf("%s&year=%d&month=%s", s.baseURL, year, name)
}

func (s *Scraper) processMonth(ctx context.Context, doc *goquery.Document, year, month int) int {
	bsYear, bsMonth := parseHeader(doc, year, month)
	englishMonth, englishYear := parseEnglishHeader(doc)

	region, strategy, ok := common.SelectRegion(doc, regionChain)
	if !ok {
		log.Printf("[calendar] %d-%d: all selector strategies exhausted", year, month)
		return 0
	}
	log.Printf("[calendar] %d-%d: region via %q", bsYear, bsMonth, strategy)

	saved := 0
	region.Find("td").Each(func(i int, cell *goquery.Selection) {
		day, ok := parseDayCell(cell, i%7, bsYear, bsMonth, englishMonth, englishYear)
		if !ok {
			return
		}
		if _, err := s.rec.CalendarDay(ctx, day); err != nil {
			log.Printf("[calendar] save %d-%02d-%02d failed: %v", day.Year, day.Month, day.Day, err)
			return
		}
		saved++
	})
	if saved == 0 {
		log.Printf("[calendar] %d-%d: no day cells parsed", bsYear, bsMonth)
	}
	return saved
}

// parseHeader reads the ".cal_left" header ("JESTHA २०८२"), falling back to
// the requested year and month when the widget withholds it.
func parseHeader(doc *goquery.Document, fallbackYear, fallbackMonth int) (int, int) {
	parts := strings.Fields(common.CleanText(doc.Find(".cal_left").First().Text()))
	year, month := fallbackYear, fallbackMonth
	if len(parts) >= 2 {
		if y, ok := normalize.ParseInt(parts[len(parts)-1]); ok {
			year = y
		}
		for num, name := range bsMonthNames {
			if num > 0 && strings.EqualFold(name, parts[0]) {
				month = num
				break
			}
		}
	}
	return year, month
}

// parseEnglishHeader reads ".cal_right" ("MAY-JUN 2025"): the overlapping
// Gregorian months and year.
func parseEnglishHeader(doc *goquery.Document) (month, year string) {
	text := common.CleanText(doc.Find(".cal_right").First().Text())
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", ""
	}
	year = fields[len(fields)-1]
	month = strings.SplitN(fields[0], "-", 2)[0]
	return month, year
}

func parseDayCell(cell *goquery.Selection, column, bsYear, bsMonth int, englishMonth, englishYear string) (model.CalendarDay, bool) {
	content := cell.Find(".npd").First()
	if content.Length() == 0 {
		return model.CalendarDay{}, false
	}
	dayNum, ok := normalize.ParseInt(content.Text())
	if !ok {
		return model.CalendarDay{}, false
	}

	tithi, _ := common.FirstText(cell, ".lunar_day", ".tithi")

	var events []string
	for _, selector := range []string{".event_one", ".rotate_left", ".rotate_right"} {
		if text := common.CleanText(cell.Find(selector).First().Text()); text != "" {
			events = append(events, text)
		}
	}

	weekday := weekdays[column]

	day := model.CalendarDay{
		Year:          bsYear,
		Month:         bsMonth,
		Day:           dayNum,
		NepaliDate:    fmt.Sprintf("%d-%02d-%02d", bsYear, bsMonth, dayNum),
		EnglishDate:   fmt.Sprintf("%s %d, %s", englishMonth, dayNum, englishYear),
		Weekday:       weekday,
		NepaliWeekday: nepaliWeekdays[weekday],
		IsHoliday:     isHoliday(cell, content),
		Event:         strings.Join(events, ", "),
		Tithi:         tithi,
	}
	if tithi != "" {
		day.Panchang = "पञ्चाङ्ग: " + tithi
	}
	return day, true
}

// Holidays are flagged only by the orange inline style the widget paints
// them with.
func isHoliday(cell, content *goquery.Selection) bool {
	for _, sel := range []*goquery.Selection{cell, content} {
		if style, ok := sel.Attr("style"); ok && strings.Contains(strings.ToUpper(style), "#FF4D00") {
			return true
		}
	}
	return false
}
