package views

import (
	"context"
	"fmt"
	"io"

	"github.com/AdamBeresnev/sabo-arena/internal/bracket"
	"github.com/AdamBeresnev/sabo-arena/internal/service"
	"github.com/a-h/templ"
)

func Index(tournaments []bracket.Tournament) templ.Component {
	return layout("Tournaments", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Tournaments</h1><a href="/tournaments/create">New tournament</a><ul>`); err != nil {
			return err
		}
		for _, t := range tournaments {
			if err := html(w, `<li><a href="/tournaments/%s">%s</a> <small>%s · %s</small></li>`, t.ID, t.Name, t.Format, t.Status); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	}))
}

func LoginPage(providers []string) templ.Component {
	return layout("Log in", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>SABO Arena</h1>`); err != nil {
			return err
		}
		for _, p := range providers {
			if err := html(w, `<a class="button" href="/auth/%s">Continue with %s</a>`, p, p); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<form method="post" action="/auth/guest"><button>Continue as guest</button></form>`)
		return err
	}))
}

var formatOptions = []struct {
	value bracket.Format
	label string
}{
	{"", "Pick from game type"},
	{bracket.SingleElimination, "Single elimination"},
	{bracket.DoubleElimination, "Double elimination"},
	{bracket.SaboDE16, "SABO DE16 (16 players)"},
	{bracket.SaboDE32, "SABO DE32 (32 players)"},
	{bracket.RoundRobin, "Round robin"},
	{bracket.Swiss, "Swiss"},
}

func CreateTournamentPage() templ.Component {
	return layout("New tournament", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>New tournament</h1><form hx-post="/tournaments">
<label>Name <input name="name" required maxlength="100"></label>
<label>Game <select name="game_type"><option>8-Ball</option><option>9-Ball</option><option>10-Ball</option></select></label>
<label>Format <select name="format">`); err != nil {
			return err
		}
		for _, o := range formatOptions {
			if err := html(w, `<option value="%s">%s</option>`, o.value, o.label); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</select></label>
<label>Players, one per line in seed order <textarea name="participants" rows="16" required></textarea></label>
<button type="submit">Create bracket</button></form>`)
		return err
	}))
}

func TournamentView(data *service.TournamentData) templ.Component {
	t := data.Tournament
	return layout(t.Name, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := html(w, `<h1>%s</h1><p>%s · %s · %s</p>`, t.Name, t.GameType, t.Format, t.Status); err != nil {
			return err
		}
		if t.ChampionID != nil {
			if err := html(w, `<p class="champion">Champion: %s</p>`, data.ParticipantName(t.ChampionID)); err != nil {
				return err
			}
		}

		for _, section := range PrepareBracketData(data.Matches) {
			if err := html(w, `<section><h2>%s</h2><div class="rounds">`, section.Title); err != nil {
				return err
			}
			for _, round := range section.Rounds {
				if err := html(w, `<div class="round"><h3>%s</h3>`, round.Label); err != nil {
					return err
				}
				for i := range round.Matches {
					if err := matchCard(w, data, &round.Matches[i]); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, `</div>`); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</div></section>`); err != nil {
				return err
			}
		}

		if len(data.Standings) > 0 {
			if err := standingsTable(w, data.Standings); err != nil {
				return err
			}
		}
		return nil
	}))
}

func matchCard(w io.Writer, data *service.TournamentData, m *bracket.Match) error {
	score := func(s *int) string {
		if s == nil {
			return ""
		}
		return fmt.Sprint(*s)
	}

	if err := html(w, `<div class="match %s" id="match-%s"><span class="key">M%s</span>`, m.Status, m.Key(), m.MatchNumber); err != nil {
		return err
	}
	for slot := 1; slot <= 2; slot++ {
		s := m.Score1
		if slot == 2 {
			s = m.Score2
		}
		name := data.ParticipantName(m.Player(slot))
		if m.IsBye && slot == 2 {
			name = "BYE"
			s = nil
		}
		winner := ""
		if m.WinnerSlot() == slot {
			winner = "winner"
		}
		if err := html(w, `<div class="slot %s"><span>%s</span><b>%s</b></div>`, winner, name, score(s)); err != nil {
			return err
		}
	}

	if m.Status == bracket.MatchReady && data.Tournament.Status == bracket.TournamentActive {
		if err := html(w, `<form class="result" hx-post="/tournaments/%s/matches/%s/%s/result">
<select name="winner_id"><option value="%s">%s</option><option value="%s">%s</option></select>
<input name="score1" type="number" min="0" required><input name="score2" type="number" min="0" required>
<button>Save</button></form>`,
			data.Tournament.ID, m.RoundNumber, m.MatchNumber,
			*m.Player1ID, data.ParticipantName(m.Player1ID), *m.Player2ID, data.ParticipantName(m.Player2ID)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, `</div>`)
	return err
}

func standingsTable(w io.Writer, standings []bracket.Standing) error {
	if _, err := io.WriteString(w, `<section><h2>Standings</h2><table><tr><th>#</th><th>Player</th><th>P</th><th>W</th><th>L</th><th>+/-</th></tr>`); err != nil {
		return err
	}
	for i, s := range standings {
		if err := html(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			i+1, s.Participant.Name, s.Played, s.Wins, s.Losses, s.ScoreDiff); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</table></section>`)
	return err
}
