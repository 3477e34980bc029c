// Package templates holds the dashboard page components.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// PageData feeds the dashboard page: the selector options and the initial
// filter values the interactive sections render with.
type PageData struct {
	States       []string
	DefaultState string
	StartDate    string
	EndDate      string
}

// Dashboard renders the full dashboard page. The interactive sections
// (top products, low-revenue report) carry Datastar bindings that refetch
// them over SSE whenever a filter input changes.
func Dashboard(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pageTemplate.Execute(w, data)
	})
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Orders Analytics Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f6f7f9; color: #1f2430; }
header { background: #1f2430; color: #fff; padding: 1rem 2rem; }
main { max-width: 1100px; margin: 0 auto; padding: 1rem 2rem 3rem; }
section { background: #fff; border-radius: 8px; padding: 1.25rem 1.5rem; margin-top: 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
h2 { margin-top: 0; font-size: 1.15rem; }
.chart { max-width: 100%; height: auto; display: block; margin: .75rem 0; }
.chart-row { display: flex; gap: 1rem; flex-wrap: wrap; }
.chart-row .chart { flex: 1 1 420px; min-width: 0; }
.controls { display: flex; gap: 1rem; align-items: center; margin-bottom: .5rem; flex-wrap: wrap; }
.controls label { font-size: .9rem; }
select, input[type=date] { padding: .35rem .5rem; border: 1px solid #cbd2dc; border-radius: 4px; }
.modern-table { border-collapse: collapse; width: 100%; font-size: .9rem; }
.modern-table th, .modern-table td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #e4e8ee; }
.category-badge { background: #e8f5ee; border-radius: 4px; padding: .1rem .4rem; }
</style>
</head>
<body data-signals="{selectedState: '{{.DefaultState}}', startDate: '{{.StartDate}}', endDate: '{{.EndDate}}'}">
<header>
<h1>Orders Analytics Dashboard</h1>
</header>
<main>

<section>
<h2>Sales Performance and Revenue per Region</h2>
<div class="chart-row">
<img class="chart" src="/charts/state-revenue.png" alt="Total revenue per customer state">
<img class="chart" src="/charts/state-orders.png" alt="Total number of orders per customer state">
</div>
</section>

<section>
<h2>Most Popular Products per Region</h2>
<div class="controls">
<label for="state-select">Seller state</label>
<select id="state-select" data-bind-selectedState data-on-change="@get('/sse/top-products?state=' + $selectedState)">
{{range .States}}<option value="{{.}}">{{.}}</option>
{{end}}</select>
</div>
<div id="products-content">
<img class="chart" src="/charts/top-products.png?state={{.DefaultState}}" alt="Top 10 best selling product categories in {{.DefaultState}}">
</div>
</section>

<section>
<h2>Monthly Sales Trends</h2>
<div class="chart-row">
<img class="chart" src="/charts/monthly-sales.png" alt="Total sales per month">
<img class="chart" src="/charts/monthly-orders.png" alt="Order count per month">
</div>
</section>

<section>
<h2>Lowest Sales Revenue per Region</h2>
<div class="controls">
<label for="start-date">Start date</label>
<input id="start-date" type="date" data-bind-startDate data-on-change="@get('/sse/low-revenue?start=' + $startDate + '&end=' + $endDate)">
<label for="end-date">End date</label>
<input id="end-date" type="date" data-bind-endDate data-on-change="@get('/sse/low-revenue?start=' + $startDate + '&end=' + $endDate)">
</div>
<div id="lowrevenue-content">
<img class="chart" src="/charts/low-revenue.png?start={{.StartDate}}&end={{.EndDate}}" alt="States with the lowest sales revenue in the selected range">
</div>
</section>

</main>
</body>
</html>
`))
