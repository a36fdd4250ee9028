package report

// htmlTemplate is the main HTML template for the report
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}} - Scheduler Benchmark Report</title>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
            --accent-primary: #3b82f6;
            --accent-success: #22c55e;
            --accent-error: #ef4444;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 2rem;
        }

        .card {
            background: var(--bg-primary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            box-shadow: var(--shadow);
            padding: 1.5rem;
            margin-bottom: 1.5rem;
        }

        h1 { font-size: 1.75rem; margin-bottom: 0.25rem; }
        h2 { font-size: 1.15rem; margin-bottom: 1rem; }
        .muted { color: var(--text-secondary); font-size: 0.9rem; }

        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 1rem;
        }

        .stat-value { font-size: 1.4rem; font-weight: 600; }

        table { width: 100%; border-collapse: collapse; }
        th, td {
            text-align: left;
            padding: 0.5rem 0.75rem;
            border-bottom: 1px solid var(--border-color);
        }
        th { color: var(--text-secondary); font-weight: 500; }
        td.num { text-align: right; font-variant-numeric: tabular-nums; }

        .bar-track { background: var(--bg-secondary); border-radius: 4px; height: 0.9rem; }
        .bar { background: var(--accent-primary); border-radius: 4px; height: 100%; }
        .skipped { color: var(--accent-error); }
    </style>
</head>
<body>
<div class="container">
    <div class="card">
        <h1>{{.Name}}</h1>
        {{if .Description}}<p class="muted">{{.Description}}</p>{{end}}
        <p class="muted">Started {{.StartTime.Format "2006-01-02 15:04:05"}} &middot; {{.Mode}} mode &middot; total {{formatDuration .Duration}}</p>
    </div>

    <div class="card">
        <h2>Workload</h2>
        <div class="grid">
            <div><div class="muted">Elements</div><div class="stat-value">{{.Workload.Count}}</div></div>
            <div><div class="muted">Average delay</div><div class="stat-value">{{formatDuration .Workload.AverageDelay}}</div></div>
            <div><div class="muted">Fail every</div><div class="stat-value">{{.Workload.FailEvery}}</div></div>
            <div><div class="muted">Delay on fail</div><div class="stat-value">{{formatDuration .Workload.FailDelay}}</div></div>
            <div><div class="muted">Reference total work</div><div class="stat-value">{{formatDuration .Workload.ReferenceTotal}}</div></div>
        </div>
        <p class="muted" style="margin-top:1rem">Fingerprint {{.Workload.Fingerprint}}{{if .Workload.Failing}} &middot; failing elements: {{join .Workload.Failing}}{{end}}</p>
    </div>

    <div class="card">
        <h2>Ranking</h2>
        <table>
            <thead>
                <tr><th>Strategy</th><th>Type</th><th style="width:40%"></th><th class="num">Elapsed</th></tr>
            </thead>
            <tbody>
            {{range .Ranking}}
                <tr>
                    <td>{{.Name}}</td>
                    <td>{{.Type}}</td>
                    <td><div class="bar-track"><div class="bar" style="width: {{barWidth .ElapsedMillis $.SlowestMs}}%"></div></div></td>
                    <td class="num">{{.ElapsedMillis}} ms</td>
                </tr>
            {{end}}
            </tbody>
        </table>
    </div>

    <div class="card">
        <h2>Strategies</h2>
        <table>
            <thead>
                <tr>
                    <th>Strategy</th>
                    <th class="num">Used contexts</th>
                    <th class="num">Delivered</th>
                    <th class="num">Skipped</th>
                    <th class="num">Task p50</th>
                    <th class="num">Task p99</th>
                    <th class="num">Task max</th>
                </tr>
            </thead>
            <tbody>
            {{range .Strategies}}
                <tr>
                    <td>{{.Name}}</td>
                    <td class="num">{{.UtilizedContexts}}</td>
                    <td class="num">{{len .Delivered}}</td>
                    <td class="num{{if .Skipped}} skipped{{end}}">{{len .Skipped}}</td>
                    <td class="num">{{formatLatency .Metrics.TaskLatency.P50}}</td>
                    <td class="num">{{formatLatency .Metrics.TaskLatency.P99}}</td>
                    <td class="num">{{formatLatency .Metrics.TaskLatency.Max}}</td>
                </tr>
            {{end}}
            </tbody>
        </table>
    </div>
</div>
</body>
</html>
`
