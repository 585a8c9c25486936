package dashboard

import (
	"context"
	"strconv"

	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/pkg/econdb"
)

// Labels shown on the page.
const (
	PageTitle          = "엠티엘 뉴스"
	NewsHeading        = "뉴스"
	RatesHeading       = "운임 비용"
	ChartsHeading      = "그래프"
	ReadArticleLabel   = "기사 읽기"
	RatesFailedMessage = "운임 데이터를 가져오는 데 실패했습니다."
	NewsFailedMessage  = "뉴스를 가져오는 데 실패했습니다."
	noDateLabel        = "No Date"
	noRateLabel        = "-"
	dateLayout         = "2006-01-02 15:04"
)

// chartSpec binds a chart route name to its fetcher and labels.
type chartSpec struct {
	Name    string
	Heading string
	Button  string
	Failed  string
	fetch   func(FeedSource, context.Context) domain.Result[econdb.Chart]
}

var charts = []chartSpec{
	{
		Name:    econdb.FeedPortComparison,
		Heading: "포트 비교",
		Button:  "포트 비교 데이터 가져오기",
		Failed:  "포트 비교 데이터를 가져오는 데 실패했습니다.",
		fetch:   FeedSource.PortComparison,
	},
	{
		Name:    econdb.FeedSCFI,
		Heading: "SCFI",
		Button:  "SCFI 데이터 가져오기",
		Failed:  "SCFI 데이터를 가져오는 데 실패했습니다.",
		fetch:   FeedSource.SCFI,
	},
	{
		Name:    econdb.FeedGlobalTrade,
		Heading: "글로벌 무역",
		Button:  "글로벌 무역 데이터 가져오기",
		Failed:  "글로벌 무역 데이터를 가져오는 데 실패했습니다.",
		fetch:   FeedSource.GlobalTrade,
	},
}

func chartByName(name string) (chartSpec, bool) {
	for _, c := range charts {
		if c.Name == name {
			return c, true
		}
	}
	return chartSpec{}, false
}

type articleCard struct {
	Title   string
	Source  string
	Date    string
	Link    string
	HasLink bool
	Image   string
}

func newArticleCard(rec domain.ArticleRecord, placeholder string) articleCard {
	return articleCard{
		Title:   rec.Title,
		Source:  rec.Source,
		Date:    domain.FormatDate(rec.Date, dateLayout, noDateLabel),
		Link:    rec.Link,
		HasLink: rec.HasLink(),
		Image:   rec.Thumbnail.OrElse(placeholder),
	}
}

type indexView struct {
	Title         string
	StylesheetURL string
	Keyword       string
	Charts        []chartSpec
}

type newsView struct {
	Keyword string
	Cards   []articleCard
	Error   string
}

type rateRow struct {
	OriginName      string
	DestinationName string
	Rate            string
}

func newRateRows(rows []domain.FreightRate) []rateRow {
	out := make([]rateRow, 0, len(rows))
	for _, r := range rows {
		rate := noRateLabel
		if v, ok := r.Rate.Get(); ok {
			rate = strconv.FormatFloat(v, 'f', 2, 64)
		}
		out = append(out, rateRow{OriginName: r.OriginName, DestinationName: r.DestinationName, Rate: rate})
	}
	return out
}

type ratesView struct {
	Rows    []rateRow
	Message string
	Error   string
}

type chartView struct {
	Name    string
	Heading string
	Chart   econdb.Chart
	Failed  string
}

// apiResponse is the JSON envelope of every /api route.
type apiResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Data   any    `json:"data,omitempty"`
}
