package web

// viewerPage is the embedded top-down viewer. Canvas drawing happens client
// side; the page consumes /scene once and the /ws frame stream afterwards.
const viewerPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>USS Replay Viewer</title>
<style>
  body { margin: 0; background: #111; color: #ddd; font: 13px monospace; }
  #bar { padding: 6px 10px; background: #1b1b1b; }
  #view { display: block; margin: 0 auto; background: #161616; }
  .sw { color: #888; } .tr { color: #4caf50; } .fv { color: #2196f3; }
  .el { color: #ff9800; } .cl { color: #f44336; }
</style>
</head>
<body>
<div id="bar">
  frame <span id="idx">-</span>/<span id="total">-</span>
  &nbsp; t=<span id="ts">-</span>us
  &nbsp; <span class="sw">signal-ways <span id="nsw">0</span></span>
  &nbsp; <span class="tr">tracing</span>
  <span class="fv">fov</span>
  <span class="el">ellipse</span>
  <span class="cl">clustered</span>
</div>
<canvas id="view" width="900" height="600"></canvas>
<script>
const mpp = 40; // meters to pixels
const canvas = document.getElementById('view');
const ctx = canvas.getContext('2d');
let scene = {contour: [], sensors: []};

function toPx(p) {
  return [canvas.width / 2 + p.X * mpp, canvas.height / 2 - p.Y * mpp];
}

function drawScene() {
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  if (scene.contour && scene.contour.length > 1) {
    ctx.strokeStyle = '#666';
    ctx.beginPath();
    scene.contour.forEach((p, i) => {
      const [x, y] = toPx(p);
      i === 0 ? ctx.moveTo(x, y) : ctx.lineTo(x, y);
    });
    ctx.closePath();
    ctx.stroke();
  }
  (scene.sensors || []).forEach(s => {
    const [x, y] = toPx(s);
    ctx.fillStyle = '#aaa';
    ctx.fillRect(x - 2, y - 2, 4, 4);
    const a = s.MountingDeg * Math.PI / 180;
    ctx.strokeStyle = '#444';
    ctx.beginPath();
    ctx.moveTo(x, y);
    ctx.lineTo(x + Math.cos(a) * 20, y - Math.sin(a) * 20);
    ctx.stroke();
  });
}

function drawPoints(points, color, r) {
  ctx.fillStyle = color;
  (points || []).forEach(p => {
    const [x, y] = toPx(p);
    ctx.beginPath();
    ctx.arc(x, y, r, 0, 2 * Math.PI);
    ctx.fill();
  });
}

fetch('/scene').then(r => r.json()).then(s => { scene = s; drawScene(); });

const ws = new WebSocket('ws://' + location.host + '/ws');
ws.onmessage = ev => {
  const f = JSON.parse(ev.data);
  if (f.type !== 'frame') return;
  document.getElementById('idx').textContent = f.index;
  document.getElementById('total').textContent = f.total;
  document.getElementById('ts').textContent = f.timestamp_us;
  document.getElementById('nsw').textContent = f.signal_ways;
  drawScene();
  drawPoints(f.tracing, '#4caf50', 2);
  drawPoints(f.fov, '#2196f3', 2);
  drawPoints(f.ellipse, '#ff9800', 2);
  drawPoints(f.clustered, '#f44336', 4);
};
</script>
</body>
</html>
`
