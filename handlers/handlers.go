package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/dustin/go-humanize"

	"github.com/giygas/drugs-eda/dashboard"
	"github.com/giygas/drugs-eda/logging"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// chartTitles are the alt texts of the page images
var chartTitles = map[string]string{
	dashboard.ChartRatings:        "Distribution of Ratings",
	dashboard.ChartConditions:     "Top Medical Conditions",
	dashboard.ChartSideEffects:    "Top Reported Side Effects",
	dashboard.ChartRatingsByClass: "Drug Ratings by Class",
}

type dropdown struct {
	Name     string
	Label    string
	Options  []string
	Selected string
}

type chartLink struct {
	Title string
	URL   string
}

type pageData struct {
	Dropdowns []dropdown
	Count     string
	Total     string
	Header    []string
	Rows      [][]string
	Charts    []chartLink
}

func chartURL(name string, sel dashboard.Selection) string {
	query := url.Values{}
	if sel.Condition != dashboard.All {
		query.Set(ParamCondition, sel.Condition)
	}
	if sel.DrugClass != dashboard.All {
		query.Set(ParamDrugClass, sel.DrugClass)
	}
	u := "/charts/" + name + ".png"
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (h *HTTPHandlerImpl) page(v *dashboard.View) pageData {
	filters := dashboard.NewFilterOptions(h.dataStore.GetConditions(), h.dataStore.GetDrugClasses())
	header := h.dataStore.GetTable().Header

	data := pageData{
		Dropdowns: []dropdown{
			{Name: ParamCondition, Label: "Medical Condition", Options: filters.Conditions, Selected: v.Selection.Condition},
			{Name: ParamDrugClass, Label: "Drug Class", Options: filters.DrugClasses, Selected: v.Selection.DrugClass},
		},
		Count:  humanize.Comma(int64(v.Count)),
		Total:  humanize.Comma(int64(v.Total)),
		Header: header,
		Rows:   make([][]string, 0, len(v.Preview)),
	}

	for i := range v.Preview {
		row := make([]string, len(header))
		for j, col := range header {
			row[j] = v.Preview[i].Cell(col)
		}
		data.Rows = append(data.Rows, row)
	}

	for _, name := range dashboard.ChartNames {
		data.Charts = append(data.Charts, chartLink{Title: chartTitles[name], URL: chartURL(name, v.Selection)})
	}
	return data
}

// Index renders the dashboard page for the selection in the query string
func (h *HTTPHandlerImpl) Index(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, h.page(v)); err != nil {
		logging.Error("Failed to render page", "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Warn("Failed to write page", "error", err)
	}
}
