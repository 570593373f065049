package inspect

import (
	"html/template"
	"io"
)

type pageData struct {
	Body template.HTML
}

// renderPage writes the inspector page around body, which must already be
// escaped HTML.
func renderPage(w io.Writer, body string) error {
	return pageTemplate.Execute(w, pageData{Body: template.HTML(body)})
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>relax inspector</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; display: flex; }
#relax-root { flex: 1; padding: 1rem; }
#relax-log { width: 28rem; height: 100vh; overflow: auto; margin: 0; padding: 1rem;
  background: #111; color: #ddd; font: 12px/1.4 monospace; }
</style>
</head>
<body>
<main id="relax-root">{{.Body}}</main>
<pre id="relax-log"></pre>
<script>
(function() {
    'use strict';

    var root = document.getElementById('relax-root');
    var log = document.getElementById('relax-log');
    var pending = false;

    function refresh() {
        if (pending) {
            return;
        }
        pending = true;
        setTimeout(function() {
            fetch('/snapshot').then(function(r) { return r.text(); }).then(function(html) {
                root.innerHTML = html;
                pending = false;
            });
        }, 50);
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onmessage = function(e) {
            var msg = JSON.parse(e.data);
            if (msg.type === 'snapshot') {
                root.innerHTML = msg.html;
                return;
            }
            var m = msg.mutation;
            log.textContent = m.op + ' #' + m.target + (m.name ? ' ' + m.name : '') +
                (m.value ? ' = ' + m.value : '') + '\n' + log.textContent;
            refresh();
        };

        ws.onclose = function() {
            setTimeout(connect, 1000);
        };
    }

    root.addEventListener('click', function(e) {
        var el = e.target.closest('[data-relax-id]');
        if (el) {
            fetch('/nodes/' + el.dataset.relaxId + '/events/click', { method: 'POST' });
        }
    });

    connect();
})();
</script>
</body>
</html>
`))
