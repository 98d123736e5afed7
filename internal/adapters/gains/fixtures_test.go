package gains_test

// trackPage mimics a tracker page: a navigation table, a link table with many
// rows but no skills, then the gains table with a header row.
const trackPage = `<!DOCTYPE html>
<html><head><title>Zezima - Tracker</title>
<style>td { color: red; } /* Attack Defence Strength */</style>
<script>var skills = ["Attack","Defence","Strength","Magic","Prayer"];</script>
</head>
<body>
<table class="nav"><tr><td><a href="/">Home</a></td><td><a href="/top">Top</a></td></tr></table>
<table class="links">
<tr><td>Forums</td></tr><tr><td>News</td></tr><tr><td>Records</td></tr>
<tr><td>Competitions</td></tr><tr><td>Virtual hiscores</td></tr><tr><td>About</td></tr>
</table>
<table class="tablesorter">
<thead><tr><th>Skill</th><th>Exp</th><th>Rank</th><th>Day</th><th>Week</th><th>Month</th><th>Year</th></tr></thead>
<tbody>
<tr><td>Overall</td><td>5,400,000,000</td><td>1</td><td>+10,000</td><td>+1,234,567</td><td>+2,000,000</td><td>+9,000,000</td></tr>
<tr><td>Attack</td><td>200,000,000</td><td>12</td><td>0</td><td>+1,234</td><td>+5,000</td><td>+60,000</td></tr>
<tr><td>Defence</td><td>200,000,000</td><td>15</td><td>+15</td><td>+900</td><td>+1,000</td><td>+1,100</td></tr>
<tr><td>Strength</td><td>200,000,000</td><td>9</td><td>-5</td><td>+2,500</td><td>N/A</td><td>+3,000</td></tr>
<tr><td>Ranged</td><td>14,000,000</td><td>80,000</td><td>0</td><td>0</td><td>0</td><td>0</td></tr>
</tbody>
</table>
</body></html>`

// iconPage has icon-only skill cells and a single "7d" header. The
// remaining windows sit at their positional columns.
const iconPage = `<html><body><div id="content">
<table>
<tr><td></td><td>Experience</td><td></td><td>7d</td><td></td><td></td></tr>
<tr><td><img src="/img/attack.png" alt="Attack icon"></td><td>200,000,000</td><td>11</td><td>22</td><td>33</td><td>44</td></tr>
<tr><td><img src="/img/defence.png" title="Defence"></td><td>150,000,000</td><td>1</td><td>2</td><td>3</td><td>4</td></tr>
<tr><td><span title="Slayer"><img src="/img/slayer.png"></span></td><td>100,000,000</td><td>5</td><td>6</td><td>7</td><td>8</td></tr>
<tr><td><img src="/img/farming.png" alt="Farming"></td><td>90,000,000</td><td>9</td><td>10</td><td>11</td><td>12</td></tr>
</table>
</div></body></html>`

// collidingPage puts the week header in the column the day window would use
// positionally, so the day window has no column.
const collidingPage = `<html><body>
<table>
<tr><th>Skill</th><th>Exp</th><th>Gained (7 days)</th><th>-</th><th>-</th><th>-</th></tr>
<tr><td>Mining</td><td>1</td><td>100</td><td>200</td><td>300</td><td>400</td></tr>
<tr><td>Smithing</td><td>1</td><td>100</td><td>200</td><td>300</td><td>400</td></tr>
<tr><td>Fishing</td><td>1</td><td>100</td><td>200</td><td>300</td><td>400</td></tr>
<tr><td>Cooking</td><td>1</td><td>100</td><td>200</td><td>300</td><td>400</td></tr>
</table>
</body></html>`

// stablePage has a short table carrying the stable id after a longer
// unlabelled one.
const stablePage = `<html><body>
<table>
<tr><td>Attack</td></tr><tr><td>Defence</td></tr><tr><td>Strength</td></tr>
<tr><td>Magic</td></tr><tr><td>Prayer</td></tr><tr><td>Ranged</td></tr>
</table>
<table id="stats_table">
<tr><th>Skill</th><th>Exp</th><th>Day</th><th>Week</th><th>Month</th><th>Year</th></tr>
<tr><td>Necromancy</td><td>1</td><td>1</td><td>2</td><td>3</td><td>4</td></tr>
<tr><td>Archaeology</td><td>1</td><td>5</td><td>6</td><td>7</td><td>8</td></tr>
</table>
</body></html>`

// updatePage is shown for subjects the tracker knows but has no data for.
const updatePage = `<html><body><div class="notice">
<p>This player has not been updated yet. Tracking begins after the first update is recorded on our servers.</p>
<p><a href="/tracker-rs3/update.php?player=Zezima">Update</a> this player now to start collecting their experience gains.</p>
</div></body></html>`

// notFoundPage is the tracker's reply for unknown subjects.
const notFoundPage = `<html><body><div class="error">
<h2>PLAYER NOT FOUND</h2>
<p>The requested player could not be found in the hiscores. Please check the spelling of the name and try again in a few minutes.</p>
</div></body></html>`

// unrelatedPage is long enough to be parsed but has no gains table.
const unrelatedPage = `<html><body><h1>Scheduled maintenance</h1>
<p>The tracker is currently undergoing scheduled maintenance. Statistics will return shortly. We apologise for any
inconvenience this may cause and thank you for your patience while we improve the service.</p></body></html>`

// totalHeaderPage leads with a "Total" column whose header is also a skill
// alias. Skills sit in the second column.
const totalHeaderPage = `<html><body>
<table>
<tr><th>Total</th><th>Skill</th><th>Exp</th><th>Day</th><th>Week</th><th>Month</th><th>Year</th></tr>
<tr><td>1</td><td>Attack</td><td>200,000,000</td><td>+10</td><td>+1,234</td><td>+2,000</td><td>+3,000</td></tr>
<tr><td>2</td><td>Defence</td><td>150,000,000</td><td>+20</td><td>+900</td><td>+1,000</td><td>+1,100</td></tr>
<tr><td>3</td><td>Strength</td><td>120,000,000</td><td>+30</td><td>+800</td><td>+900</td><td>+1,000</td></tr>
<tr><td>4</td><td>Magic</td><td>110,000,000</td><td>+40</td><td>+700</td><td>+800</td><td>+900</td></tr>
</table>
</body></html>`

// captionPage has a caption row mentioning days above the real header.
const captionPage = `<html><body>
<table>
<tr><th colspan="7">Tracked for 412 days</th></tr>
<tr><th>#</th><th>Skill</th><th>Exp</th><th>Day</th><th>Week</th><th>Month</th><th>Year</th></tr>
<tr><td>1</td><td>Mining</td><td>1</td><td>+5</td><td>+50</td><td>+500</td><td>+5,000</td></tr>
<tr><td>2</td><td>Smithing</td><td>1</td><td>+6</td><td>+60</td><td>+600</td><td>+6,000</td></tr>
<tr><td>3</td><td>Fishing</td><td>1</td><td>+7</td><td>+70</td><td>+700</td><td>+7,000</td></tr>
<tr><td>4</td><td>Cooking</td><td>1</td><td>+8</td><td>+80</td><td>+800</td><td>+8,000</td></tr>
</table>
</body></html>`

// headerOnlyPage names enough skills to be scored, but only in its header row.
const headerOnlyPage = `<html><body>
<table>
<tr><th>Attack</th><th>Defence</th><th>Strength</th><th>Week</th></tr>
<tr><td>1</td><td>2</td><td>3</td><td>4</td></tr>
<tr><td>1</td><td>2</td><td>3</td><td>4</td></tr>
<tr><td>1</td><td>2</td><td>3</td><td>4</td></tr>
<tr><td>1</td><td>2</td><td>3</td><td>4</td></tr>
</table>
</body></html>`

// hugePage carries a gain too large to scale without overflow.
const hugePage = `<html><body>
<table id="stats_table">
<tr><th>Skill</th><th>Exp</th><th>Day</th><th>Week</th><th>Month</th><th>Year</th></tr>
<tr><td>Mining</td><td>1</td><td>1</td><td>99999999999999999999</td><td>922337203685477581</td><td>-922337203685477581</td></tr>
</table>
</body></html>`
