/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package uschess

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/swisschamp/championship"
	"github.com/mikeb26/swisschamp/internal"
)

const unratedStr = "<unrated>"

var ErrUnrated = errors.New("player has no regular or quick rating")

type MemID int

type EventID int

type Event struct {
	ID      EventID
	Name    string
	EndDate time.Time
}

// Player holds information about a USCF member.
type Player struct {
	MemberID    MemID
	Name        string
	RegRating   string
	QuickRating string
	BlitzRating string
	TotalEvents int
	// most recent first
	RecentEvents []Event
}

type apiMemberResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Ratings   []struct {
		Rating        int    `json:"rating"`
		RatingSystem  string `json:"ratingSystem"`
		IsProvisional bool   `json:"isProvisional"`
		GamesPlayed   int    `json:"gamesPlayed"`
	} `json:"ratings"`
}

type apiEventsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		EndDate string `json:"endDate"`
	} `json:"items"`
}

// FetchPlayer looks the member up in the ratings API, falling back to the
// member services area web page when the API cannot answer.
func (client *Client) FetchPlayer(ctx context.Context, memberID MemID) (*Player, error) {
	player, err := client.fetchPlayerAPI(ctx, memberID)
	if err == nil {
		return player, nil
	}

	player, pageErr := client.fetchPlayerPage(ctx, memberID)
	if pageErr != nil {
		return nil, fmt.Errorf("uschess.FetchPlayer: %v: api: %w; msa: %v",
			memberID, err, pageErr)
	}

	return player, nil
}

func (client *Client) fetchPlayerAPI(ctx context.Context, memberID MemID) (*Player, error) {
	var member apiMemberResponse
	var events apiEventsResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.getJSON(gctx,
			fmt.Sprintf("%v/members/%v", ratingsAPIBase, memberID), &member)
	})
	g.Go(func() error {
		return client.getJSON(gctx,
			fmt.Sprintf("%v/members/%v/events", ratingsAPIBase, memberID), &events)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	player := &Player{
		MemberID:    memberID,
		Name:        internal.NormalizeName(member.FirstName + " " + member.LastName),
		RegRating:   unratedStr,
		QuickRating: unratedStr,
		BlitzRating: unratedStr,
	}
	if player.Name == "" {
		return nil, fmt.Errorf("member %v has no name", memberID)
	}
	for _, r := range member.Ratings {
		if r.Rating == 0 {
			continue
		}
		ratingStr := strconv.Itoa(r.Rating)
		if r.IsProvisional && r.GamesPlayed > 0 {
			ratingStr += "P" + strconv.Itoa(r.GamesPlayed)
		}
		switch r.RatingSystem {
		case "R":
			player.RegRating = ratingStr
		case "Q":
			player.QuickRating = ratingStr
		case "B":
			player.BlitzRating = ratingStr
		}
	}

	player.TotalEvents = len(events.Items)
	for _, item := range events.Items {
		eventID, _ := strconv.Atoi(item.ID)
		endDate, _ := internal.ParseDateOrZero(item.EndDate)
		player.RecentEvents = append(player.RecentEvents, Event{
			ID:      EventID(eventID),
			Name:    item.Name,
			EndDate: endDate,
		})
	}
	sortEvents(player.RecentEvents)

	return player, nil
}

func (client *Client) fetchPlayerPage(ctx context.Context, memberID MemID) (*Player, error) {
	resp, err := client.get(ctx,
		fmt.Sprintf("%v/MbrDtlTnmtHst.php?%v", msaBase, memberID), "text/html")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return ParsePlayerPage(memberID, resp.Body)
}

// ParsePlayerPage extracts the player's name, current ratings and event
// history from a member services area tournament history page.
func ParsePlayerPage(memberID MemID, body io.Reader) (*Player, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	player := &Player{MemberID: memberID}
	prefix := fmt.Sprintf("%v:", memberID)
	doc.Find("b").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		switch {
		case player.Name == "" && strings.HasPrefix(text, prefix):
			player.Name = internal.NormalizeName(strings.TrimPrefix(text, prefix))
		case strings.HasPrefix(text, "Events for this player"):
			// "Events for this player since late 1991: 583"
			if i := strings.LastIndexByte(text, ':'); i >= 0 {
				if n, err := strconv.Atoi(strings.TrimSpace(text[i+1:])); err == nil {
					player.TotalEvents = n
				}
			}
		}
	})
	if player.Name == "" {
		return nil, fmt.Errorf("player name not found in page for %v", memberID)
	}

	table := doc.Find("table[border='1'][width='960']").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("tournament history table not found for %v",
			memberID)
	}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		tds := row.Find("td")
		if tds.Length() < 5 {
			return
		}
		dateTd := tds.Eq(0)
		// event ids may carry a trailing marker such as "**"
		fields := strings.Fields(dateTd.Find("small").Text())
		if len(fields) == 0 {
			return
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return
		}
		dateStr := dateTd.Contents().FilterFunction(func(_ int, s *goquery.Selection) bool {
			return goquery.NodeName(s) == "#text"
		}).Text()
		endDate, _ := internal.ParseDateOrZero(dateStr)

		// rows are most recent first so the first rating seen is current
		setOnce(&player.RegRating, ratingFromCell(tds.Eq(2)))
		setOnce(&player.QuickRating, ratingFromCell(tds.Eq(3)))
		setOnce(&player.BlitzRating, ratingFromCell(tds.Eq(4)))

		player.RecentEvents = append(player.RecentEvents, Event{
			ID:      EventID(id),
			Name:    strings.TrimSpace(tds.Eq(1).Find("a").Text()),
			EndDate: endDate,
		})
	})
	for _, r := range []*string{&player.RegRating, &player.QuickRating,
		&player.BlitzRating} {
		setOnce(r, unratedStr)
	}
	if player.TotalEvents < len(player.RecentEvents) {
		player.TotalEvents = len(player.RecentEvents)
	}
	sortEvents(player.RecentEvents)

	return player, nil
}

func setOnce(dst *string, val string) {
	if *dst == "" && val != "" {
		*dst = val
	}
}

// ratingFromCell returns the post-event rating (bold) or the cell text, or ""
// when the cell carries no rating.
func ratingFromCell(sel *goquery.Selection) string {
	ret := strings.TrimSpace(sel.Text())
	if b := sel.Find("b").First(); b.Length() > 0 {
		ret = strings.TrimSpace(b.Text())
	}
	if ret == unratedStr || strings.EqualFold(ret, "unrated") {
		return ""
	}

	return ret
}

func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[j].EndDate.Before(events[i].EndDate)
	})
}

// parseRating splits a rating such as "1234" or the provisional "1234P10"
// into the rating and the number of provisional games.
func parseRating(s string) (rating int, provGames int, provisional bool, err error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'P'); i >= 0 {
		rating, err = strconv.Atoi(strings.TrimSpace(s[:i]))
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid provisional rating %q: %w", s, err)
		}
		provGames, err = strconv.Atoi(strings.TrimSpace(s[i+1:]))
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid provisional rating %q: %w", s, err)
		}
		return rating, provGames, true, nil
	}

	rating, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid rating %q: %w", s, err)
	}
	return rating, 0, false, nil
}

// Rating returns the member's regular rating, or the quick rating when the
// member has no regular rating.
func (p *Player) Rating() (int, error) {
	for _, r := range []string{p.RegRating, p.QuickRating} {
		if r == "" || r == unratedStr {
			continue
		}
		rating, _, _, err := parseRating(r)
		if err != nil {
			return 0, err
		}
		return rating, nil
	}

	return 0, fmt.Errorf("member %v: %w", p.MemberID, ErrUnrated)
}

// PriorGames estimates how many rated games the member has played. Provisional
// ratings carry the count; otherwise each event is assumed to be 4 games.
func (p *Player) PriorGames() int {
	_, games, provisional, err := parseRating(p.RegRating)
	if err == nil && provisional {
		return games
	}

	return p.TotalEvents * 4
}

// Profile converts the member into a championship entrant.
func (p *Player) Profile() (championship.Profile, error) {
	rating, err := p.Rating()
	if err != nil {
		return championship.Profile{}, err
	}

	return championship.Profile{
		ID:     fmt.Sprintf("uscf-%v", p.MemberID),
		Name:   p.Name,
		Rating: rating,
	}, nil
}
