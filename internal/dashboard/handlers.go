package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mtl-news/maritime-desk/internal/domain"
	"github.com/mtl-news/maritime-desk/pkg/news"
)

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", indexView{
		Title:         PageTitle,
		StylesheetURL: s.opts.StylesheetURL,
		Keyword:       s.opts.DefaultKeyword,
		Charts:        charts,
	})
}

// keyword falls back to the configured default only when the parameter is
// missing; a submitted value, blank included, is searched as typed.
func (s *Server) keyword(c echo.Context) string {
	if _, ok := c.QueryParams()["keyword"]; !ok {
		return s.opts.DefaultKeyword
	}
	return c.QueryParam("keyword")
}

func (s *Server) searchNews(c echo.Context, keyword string) ([]domain.ArticleRecord, error) {
	records, err := s.news.Search(c.Request().Context(), keyword, nil)
	if err != nil {
		s.log.WarnObj("news search failed", "news_error", map[string]any{
			"keyword": keyword,
			"error":   err.Error(),
		})
		return nil, err
	}
	return news.Top(records, s.opts.NewsLimit), nil
}

func (s *Server) handleNews(c echo.Context) error {
	kw := s.keyword(c)
	view := newsView{Keyword: kw}

	records, err := s.searchNews(c, kw)
	if err != nil {
		view.Error = NewsFailedMessage
		return c.Render(http.StatusOK, "news.html", view)
	}
	for _, rec := range records {
		view.Cards = append(view.Cards, newArticleCard(rec, s.opts.PlaceholderImage))
	}
	return c.Render(http.StatusOK, "news.html", view)
}

func (s *Server) handleAPINews(c echo.Context) error {
	records, err := s.searchNews(c, s.keyword(c))
	if err != nil {
		return c.JSON(http.StatusBadGateway, apiResponse{Reason: err.Error()})
	}
	if records == nil {
		records = []domain.ArticleRecord{}
	}
	return c.JSON(http.StatusOK, apiResponse{OK: true, Data: records})
}

func (s *Server) lookupRates(c echo.Context) (domain.Result[[]domain.FreightRate], error) {
	origin := c.QueryParam("origin")
	destination := c.QueryParam("destination")

	res, err := s.feeds.LookupRates(c.Request().Context(), origin, destination)
	if err != nil {
		s.log.WarnObj("freight rate lookup failed", "rates_error", map[string]any{
			"origin":      origin,
			"destination": destination,
			"error":       err.Error(),
		})
	}
	return res, err
}

func (s *Server) handleRates(c echo.Context) error {
	res, err := s.lookupRates(c)

	var view ratesView
	switch {
	case err != nil:
		view.Error = RatesFailedMessage
	case res.IsOk():
		view.Rows = newRateRows(res.Value())
	default:
		view.Message = res.Reason()
	}
	return c.Render(http.StatusOK, "rates.html", view)
}

func (s *Server) handleAPIRates(c echo.Context) error {
	res, err := s.lookupRates(c)
	if err != nil {
		return c.JSON(http.StatusBadGateway, apiResponse{Reason: res.Reason()})
	}
	if !res.IsOk() {
		return c.JSON(http.StatusOK, apiResponse{Reason: res.Reason()})
	}
	return c.JSON(http.StatusOK, apiResponse{OK: true, Data: res.Value()})
}

func (s *Server) handleChart(c echo.Context) error {
	spec, ok := chartByName(c.Param("name"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart")
	}

	view := chartView{Name: spec.Name, Heading: spec.Heading}
	res := spec.fetch(s.feeds, c.Request().Context())
	if res.IsOk() {
		view.Chart = res.Value()
	} else {
		view.Failed = spec.Failed
	}
	return c.Render(http.StatusOK, "chart.html", view)
}

func (s *Server) handleAPIChart(c echo.Context) error {
	spec, ok := chartByName(c.Param("name"))
	if !ok {
		return c.JSON(http.StatusNotFound, apiResponse{Reason: "unknown chart"})
	}

	res := spec.fetch(s.feeds, c.Request().Context())
	if !res.IsOk() {
		return c.JSON(http.StatusBadGateway, apiResponse{Reason: res.Reason()})
	}
	return c.JSON(http.StatusOK, apiResponse{OK: true, Data: res.Value()})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
