package server

// webUIHTML is the embedded single-page UI. It drives the JSON API only;
// all state lives server-side in the advisor service.
const webUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Monte Carlo Portfolio Projections</title>
    <style>
        :root {
            --primary: #4f46e5;
            --primary-dark: #4338ca;
            --danger: #dc2626;
            --bg: #f1f5f9;
            --card-bg: #ffffff;
            --text: #1e293b;
            --text-muted: #64748b;
            --border: #e2e8f0;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
        }
        .header {
            background: linear-gradient(135deg, var(--primary) 0%, var(--primary-dark) 100%);
            color: white;
            padding: 1rem 2rem;
        }
        .header h1 { font-size: 1.25rem; font-weight: 600; }
        .header p { opacity: 0.9; font-size: 0.8rem; }
        .container { display: flex; gap: 1rem; padding: 1rem; align-items: flex-start; }
        .panel { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; }
        .controls { width: 420px; min-width: 420px; }
        .results { flex: 1; }
        .panel h2 { font-size: 0.85rem; font-weight: 600; color: var(--primary); margin-bottom: 0.5rem; }
        .section { margin-bottom: 1.25rem; }
        textarea {
            width: 100%; height: 180px; font-family: ui-monospace, monospace; font-size: 0.75rem;
            border: 1px solid var(--border); border-radius: 4px; padding: 0.5rem; resize: vertical;
        }
        textarea.small { height: 90px; }
        input[type=text] {
            width: 100%; padding: 0.35rem 0.5rem; border: 1px solid var(--border);
            border-radius: 4px; font-size: 0.8rem;
        }
        .row { display: flex; gap: 0.5rem; margin-top: 0.5rem; align-items: center; }
        .row label { font-size: 0.7rem; color: var(--text-muted); text-transform: uppercase; }
        button {
            background: var(--primary); color: white; border: none; border-radius: 4px;
            padding: 0.45rem 0.9rem; font-size: 0.8rem; cursor: pointer;
        }
        button:hover { background: var(--primary-dark); }
        button.secondary { background: #e2e8f0; color: var(--text); }
        button.secondary:hover { background: #cbd5e1; }
        .status { font-size: 0.8rem; margin-top: 0.35rem; white-space: pre-wrap; }
        .status.error { color: var(--danger); }
        .summary {
            font-family: ui-monospace, monospace; font-size: 0.85rem; white-space: pre-wrap;
            background: #f8fafc; border: 1px solid var(--border); border-radius: 4px;
            padding: 0.75rem; min-height: 5rem;
        }
        .chart { margin-top: 1rem; }
        .chart img { max-width: 100%; border: 1px solid var(--border); border-radius: 4px; display: none; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Monte Carlo Portfolio Projections</h1>
        <p>Parse a portfolio document, edit the JSON, and run wealth projections</p>
    </div>
    <div class="container">
        <div class="panel controls">
            <div class="section">
                <h2>Portfolio Document</h2>
                <input type="file" id="docFile" accept=".docx">
                <div class="row">
                    <button id="parseBtn">Parse Document</button>
                </div>
                <div class="status" id="parseStatus"></div>
            </div>
            <div class="section">
                <h2>Portfolio JSON</h2>
                <textarea id="portfolioText" spellcheck="false" placeholder="No portfolio loaded"></textarea>
                <div class="row">
                    <button id="loadBtn">Load JSON</button>
                    <button id="sampleBtn" class="secondary">Sample</button>
                    <button id="clearBtn" class="secondary">Clear</button>
                </div>
            </div>
            <div class="section">
                <h2>Assumption Override (optional)</h2>
                <textarea id="assumptionsText" class="small" spellcheck="false" placeholder='{"mu_ann": ..., "vol_ann": ..., "corr": ...}'></textarea>
                <div class="row">
                    <button id="setAssumptionsBtn" class="secondary">Set</button>
                    <button id="clearAssumptionsBtn" class="secondary">Clear</button>
                </div>
            </div>
            <div class="section">
                <h2>Run Parameters</h2>
                <div class="row">
                    <label for="nPaths">Paths</label>
                    <input type="text" id="nPaths" placeholder="10000">
                    <label for="seed">Seed</label>
                    <input type="text" id="seed" placeholder="42">
                </div>
                <div class="row">
                    <button id="simBtn">Run Simulation</button>
                </div>
            </div>
        </div>
        <div class="panel results">
            <h2>Results</h2>
            <div class="summary" id="summary">Run a simulation to see goal probabilities and terminal wealth.</div>
            <div class="status" id="simStatus"></div>
            <div class="chart"><img id="bandChart" alt="Wealth projection percentile band"></div>
            <div class="chart"><img id="terminalChart" alt="Terminal wealth markers"></div>
        </div>
    </div>
    <script>
        function el(id) { return document.getElementById(id); }

        var samplePortfolio = {
            client: { name: 'Sample Household', time_horizon_years: 20 },
            accounts: [
                { name: 'Brokerage', type: 'taxable', balance: 250000 },
                { name: 'Retirement', type: 'tax-advantaged', balance: 400000 },
                { name: 'Savings', type: 'cash_like', balance: 50000 }
            ],
            target_allocation: [
                { 'class': 'Equity_US', weight: 0.45 },
                { 'class': 'Equity_Intl_Dev', weight: 0.20 },
                { 'class': 'Fixed_Income_IG', weight: 0.30 },
                { 'class': 'Cash', weight: 0.05 }
            ],
            cash_flows: {
                recurring: [
                    { account_type: 'taxable', amount_monthly: 1500 },
                    { account_type: 'tax-advantaged', amount_annual: 23000 }
                ],
                scheduled: [
                    { year: 8, amount: -60000, label: 'College' }
                ]
            },
            constraints: { liquidity_floor_pct: 0.05, rebalance_frequency: 'monthly' },
            goals: [
                { year: 20, target: 2500000, label: 'Retirement' }
            ]
        };

        async function refreshPortfolio() {
            const resp = await fetch('/api/portfolio');
            el('portfolioText').value = resp.ok ? await resp.text() : '';
        }

        async function refreshStatus() {
            const resp = await fetch('/api/status');
            if (!resp.ok) return;
            const data = await resp.json();
            const slots = { parse: el('parseStatus'), simulate: el('simStatus') };
            for (const st of (data.statuses || [])) {
                const node = slots[st.slot];
                if (!node) continue;
                if (st.slot === 'simulate' && st.level === 'normal') {
                    el('summary').textContent = st.text;
                    node.textContent = '';
                    node.className = 'status';
                } else {
                    node.textContent = st.text;
                    node.className = st.level === 'error' ? 'status error' : 'status';
                }
            }
        }

        function refreshChart(id, path) {
            const img = el(id);
            const probe = new Image();
            probe.onload = function () { img.src = probe.src; img.style.display = 'block'; };
            probe.src = path + '?t=' + Date.now();
        }

        function refreshCharts() {
            refreshChart('bandChart', '/api/projection/chart.png');
            refreshChart('terminalChart', '/api/projection/terminal.png');
        }

        el('parseBtn').addEventListener('click', async function () {
            const form = new FormData();
            const file = el('docFile').files[0];
            if (file) form.append('file', file);
            await fetch('/api/parse', { method: 'POST', body: form });
            await refreshPortfolio();
            await refreshStatus();
        });

        el('loadBtn').addEventListener('click', async function () {
            const resp = await fetch('/api/portfolio', { method: 'PUT', body: el('portfolioText').value });
            if (!resp.ok) {
                const err = await resp.json();
                el('parseStatus').textContent = err.error || 'Invalid JSON';
                el('parseStatus').className = 'status error';
                return;
            }
            await refreshPortfolio();
            await refreshStatus();
        });

        el('sampleBtn').addEventListener('click', function () {
            el('portfolioText').value = JSON.stringify(samplePortfolio, null, 2);
        });

        el('clearBtn').addEventListener('click', async function () {
            await fetch('/api/portfolio', { method: 'DELETE' });
            await refreshPortfolio();
            await refreshStatus();
        });

        el('setAssumptionsBtn').addEventListener('click', async function () {
            await fetch('/api/assumptions', { method: 'PUT', body: el('assumptionsText').value });
        });

        el('clearAssumptionsBtn').addEventListener('click', async function () {
            await fetch('/api/assumptions', { method: 'DELETE' });
            el('assumptionsText').value = '';
        });

        el('simBtn').addEventListener('click', async function () {
            const body = {};
            if (el('nPaths').value.trim() !== '') body.n_paths = el('nPaths').value.trim();
            if (el('seed').value.trim() !== '') body.seed = el('seed').value.trim();
            const resp = await fetch('/api/simulate', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify(body)
            });
            await refreshStatus();
            if (resp.ok) refreshCharts();
        });

        refreshPortfolio();
        refreshStatus();
        refreshCharts();
    </script>
</body>
</html>
`
