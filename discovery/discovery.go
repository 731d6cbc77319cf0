// Package discovery finds recent game IDs by crawling the public
// leaderboards: each leaderboard page links player stats pages, and each
// stats page links that player's recent games.
package discovery

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "snekrules-replaycheck/1.0"

// Config controls the crawl.
type Config struct {
	LeaderboardURLs []string
	// RequestDelay spaces out HTTP requests to stay polite.
	RequestDelay time.Duration
	// MaxPlayers caps how many players are checked per leaderboard
	// (0 = unlimited).
	MaxPlayers int
}

func DefaultConfig() Config {
	return Config{
		LeaderboardURLs: []string{
			"https://play.battlesnake.com/leaderboard/standard",
			"https://play.battlesnake.com/leaderboard/standard-duels",
		},
		RequestDelay: 500 * time.Millisecond,
		MaxPlayers:   25,
	}
}

// Crawler walks leaderboards and emits game IDs it has not seen before.
type Crawler struct {
	config   Config
	client   *http.Client
	known    map[string]bool
	gameIDRe *regexp.Regexp
	playerRe *regexp.Regexp
}

func NewCrawler(config Config) *Crawler {
	return &Crawler{
		config:   config,
		client:   &http.Client{Timeout: 30 * time.Second},
		known:    make(map[string]bool),
		gameIDRe: regexp.MustCompile(`/game/([a-f0-9-]+)`),
		// /leaderboard/{arena}/{username}/stats
		playerRe: regexp.MustCompile(`/leaderboard/[^/]+/([^/]+)/stats`),
	}
}

// Crawl visits every configured leaderboard and sends new game IDs to out.
// The channel is not closed; that is the caller's job.
func (c *Crawler) Crawl(out chan<- string) error {
	total := 0
	for _, url := range c.config.LeaderboardURLs {
		statsURLs, err := c.playerStatsPages(url)
		if err != nil {
			log.Printf("discovery: leaderboard %s: %v", url, err)
			continue
		}
		if c.config.MaxPlayers > 0 && len(statsURLs) > c.config.MaxPlayers {
			statsURLs = statsURLs[:c.config.MaxPlayers]
		}
		log.Printf("discovery: %s: checking %d players", url, len(statsURLs))

		for _, statsURL := range statsURLs {
			ids, err := c.playerGames(statsURL)
			if err != nil {
				log.Printf("discovery: %s: %v", statsURL, err)
				continue
			}
			for _, id := range ids {
				if c.known[id] {
					continue
				}
				c.known[id] = true
				out <- id
				total++
			}
			time.Sleep(c.config.RequestDelay)
		}
	}
	log.Printf("discovery: crawl complete, %d new games", total)
	return nil
}

func (c *Crawler) fetch(url string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// playerStatsPages extracts the stats page URL of every player linked from a
// leaderboard page.
func (c *Crawler) playerStatsPages(leaderboardURL string) ([]string, error) {
	doc, err := c.fetch(leaderboardURL)
	if err != nil {
		return nil, err
	}

	var urls []string
	seen := make(map[string]bool)
	doc.Find("a[href*='/leaderboard/']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		m := c.playerRe.FindStringSubmatch(href)
		if len(m) < 2 || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		urls = append(urls, "https://play.battlesnake.com"+href)
	})
	return urls, nil
}

// playerGames extracts game IDs from a player's stats page.
func (c *Crawler) playerGames(statsURL string) ([]string, error) {
	doc, err := c.fetch(statsURL)
	if err != nil {
		return nil, err
	}

	var ids []string
	seen := make(map[string]bool)
	doc.Find("a[href*='/game/']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		m := c.gameIDRe.FindStringSubmatch(href)
		if len(m) < 2 || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	})
	return ids, nil
}
