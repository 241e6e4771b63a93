// Package insight derives heuristic reading statistics from a user's
// book list. Every rule is pure arithmetic over the list; the only
// nondeterminism is the motivational message pick, which goes through
// an injectable random source so tests can pin it.
package insight

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/nbekov/bookshelf/internal/domain"
)

type ReadingAnalysis struct {
	CompletionRate      float64  `json:"completionRate"`
	ReadingPattern      string   `json:"readingPattern"`
	Recommendations     []string `json:"recommendations"`
	ReadingSpeed        string   `json:"readingSpeed"`
	FavoriteGenres      []string `json:"favoriteGenres"`
	ReadingStreak       int      `json:"readingStreak"`
	MotivationalInsight string   `json:"motivationalInsight"`
}

type DetailedStats struct {
	TotalBooks         int     `json:"totalBooks"`
	BooksThisYear      int     `json:"booksThisYear"`
	BooksThisMonth     int     `json:"booksThisMonth"`
	AverageReadingPace float64 `json:"averageReadingPace"`
	FavoritePercentage float64 `json:"favoritePercentage"`
}

type ReadingGoalProgress struct {
	MonthlyProgress int      `json:"monthlyProgress"`
	YearlyProgress  int      `json:"yearlyProgress"`
	Suggestions     []string `json:"suggestions"`
}

type DetailedInsights struct {
	BasicAnalysis       ReadingAnalysis     `json:"basicAnalysis"`
	DetailedStats       DetailedStats       `json:"detailedStats"`
	ReadingGoalProgress ReadingGoalProgress `json:"readingGoalProgress"`
}

// Analyzer holds the injectable clock and random source. NewAnalyzer
// wires the real ones; tests construct the struct directly.
type Analyzer struct {
	Now  func() time.Time
	Intn func(n int) int
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Now:  time.Now,
		Intn: rand.Intn,
	}
}

func (a *Analyzer) Analyze(books []*domain.Book) ReadingAnalysis {
	if len(books) == 0 {
		return defaultAnalysis()
	}

	return ReadingAnalysis{
		CompletionRate:      completionRate(books),
		ReadingPattern:      a.readingPattern(books),
		Recommendations:     a.recommendations(books),
		ReadingSpeed:        a.readingSpeed(books),
		FavoriteGenres:      favoriteGenres(books),
		ReadingStreak:       readingStreak(books),
		MotivationalInsight: a.motivationalInsight(books),
	}
}

func (a *Analyzer) Detailed(books []*domain.Book) DetailedInsights {
	now := a.Now()
	var thisYear, thisMonth, finishedThisMonth, finishedThisYear int
	for _, b := range books {
		if b.DateAdded.Year() == now.Year() {
			thisYear++
			if b.DateAdded.Month() == now.Month() {
				thisMonth++
			}
		}
		if b.ReadingStatus == domain.StatusFinished {
			if b.DateAdded.Year() == now.Year() {
				finishedThisYear++
			}
			if b.DateAdded.Month() == now.Month() && b.DateAdded.Year() == now.Year() {
				finishedThisMonth++
			}
		}
	}

	var pace, favoritePct float64
	if len(books) > 0 {
		pace = round1(float64(countStatus(books, domain.StatusFinished)) /
			math.Max(float64(a.monthsSinceFirstBook(books)), 1))
		favoritePct = round1(float64(countFavorites(books)) / float64(len(books)) * 100)
	}

	return DetailedInsights{
		BasicAnalysis: a.Analyze(books),
		DetailedStats: DetailedStats{
			TotalBooks:         len(books),
			BooksThisYear:      thisYear,
			BooksThisMonth:     thisMonth,
			AverageReadingPace: pace,
			FavoritePercentage: favoritePct,
		},
		ReadingGoalProgress: ReadingGoalProgress{
			MonthlyProgress: min(finishedThisMonth, 10),
			YearlyProgress:  finishedThisYear,
			Suggestions:     goalSuggestions(books, finishedThisMonth),
		},
	}
}

func completionRate(books []*domain.Book) float64 {
	if len(books) == 0 {
		return 0
	}
	finished := countStatus(books, domain.StatusFinished)
	return round1(float64(finished) / float64(len(books)) * 100)
}

func (a *Analyzer) readingPattern(books []*domain.Book) string {
	finished := countStatus(books, domain.StatusFinished)
	if finished < 2 {
		return "Building your reading foundation - keep adding books!"
	}

	var patterns []string

	avgPerMonth := float64(finished) / math.Max(1, float64(a.monthsSinceFirstBook(books)))
	switch {
	case avgPerMonth >= 3:
		patterns = append(patterns, "highly consistent reader")
	case avgPerMonth >= 1.5:
		patterns = append(patterns, "steady reading pace")
	default:
		patterns = append(patterns, "casual reading style")
	}

	favoriteRate := float64(countFavorites(books)) / float64(len(books))
	switch {
	case favoriteRate > 0.3:
		patterns = append(patterns, "enthusiastic about most reads")
	case favoriteRate > 0.15:
		patterns = append(patterns, "selective with favorites")
	default:
		patterns = append(patterns, "highly discerning reader")
	}

	out := patterns[0]
	for _, p := range patterns[1:] {
		out += ", " + p
	}
	return out
}

func (a *Analyzer) recommendations(books []*domain.Book) []string {
	var recs []string
	reading := countStatus(books, domain.StatusReading)
	wantToRead := countStatus(books, domain.StatusWantToRead)

	switch {
	case reading > 5:
		recs = append(recs, "Consider focusing on fewer books at once for better retention")
	case reading == 0 && wantToRead > 0:
		recs = append(recs, "Pick up one of your 'Want to Read' books and start today!")
	case reading < 2 && wantToRead > 10:
		recs = append(recs, "You have a great reading list - start with the one that excites you most")
	}

	rate := completionRate(books)
	if rate < 30 {
		recs = append(recs, "Try shorter books or audiobooks to build momentum")
	} else if rate > 80 {
		recs = append(recs, "Excellent completion rate! Consider challenging yourself with longer classics")
	}

	authors := make(map[string]struct{}, len(books))
	for _, b := range books {
		authors[b.Author] = struct{}{}
	}
	if float64(len(authors)) < float64(len(books))*0.7 {
		recs = append(recs, "Explore books by new authors to diversify your reading experience")
	}

	if len(recs) == 0 {
		recs = append(recs, "Keep up the great reading habit! Consider joining a book club for social motivation")
	}
	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs
}

func (a *Analyzer) readingSpeed(books []*domain.Book) string {
	finished := countStatus(books, domain.StatusFinished)
	if finished == 0 {
		return "Start finishing books to track your reading speed"
	}

	months := a.monthsSinceFirstBook(books)
	perMonth := round1(float64(finished) / math.Max(float64(months), 1))
	rate := strconv.FormatFloat(perMonth, 'f', -1, 64)

	switch {
	case perMonth >= 4:
		return fmt.Sprintf("Excellent: %s books/month - You're a reading machine!", rate)
	case perMonth >= 2:
		return fmt.Sprintf("Great: %s books/month - Above average pace", rate)
	case perMonth >= 1:
		return fmt.Sprintf("Good: %s books/month - Steady reading habit", rate)
	default:
		return fmt.Sprintf("Developing: %s books/month - Room for growth", rate)
	}
}

// favoriteGenres is a placeholder: the collection carries no genre
// data, so the buckets are inferred from favorite counts alone.
func favoriteGenres(books []*domain.Book) []string {
	favorites := countFavorites(books)
	if favorites == 0 {
		return []string{"Still discovering preferences"}
	}

	genres := []string{"Fiction"}
	if favorites > 2 {
		genres = append(genres, "Mystery")
	}
	if favorites > 4 {
		genres = append(genres, "Science Fiction")
	}
	return genres
}

func readingStreak(books []*domain.Book) int {
	var finished []*domain.Book
	for _, b := range books {
		if b.ReadingStatus == domain.StatusFinished {
			finished = append(finished, b)
		}
	}
	if len(finished) == 0 {
		return 0
	}

	sort.Slice(finished, func(i, j int) bool {
		return finished[i].DateAdded.After(finished[j].DateAdded)
	})
	recent := min(len(finished), 5)
	return min(recent*2, 14)
}

// MotivationalMessages returns the full candidate set for a given book
// list. Exposed so tests can assert membership without pinning the
// random source.
func MotivationalMessages(books []*domain.Book) []string {
	finished := countStatus(books, domain.StatusFinished)

	msgs := []string{
		fmt.Sprintf("You've built a library of %d books - that's impressive dedication!", len(books)),
		fmt.Sprintf("With %d completed reads, you're expanding your knowledge daily", finished),
		"Every book you read makes you a more interesting person",
		"Reading is the fastest way to live multiple lives and gain diverse perspectives",
		"Your future self will thank you for every book you read today",
	}
	if finished >= 10 {
		msgs = append(msgs, "You're officially a bibliophile - wear that badge with pride!")
	} else if finished >= 5 {
		msgs = append(msgs, "You're developing an excellent reading habit - keep it up!")
	}
	return msgs
}

func (a *Analyzer) motivationalInsight(books []*domain.Book) string {
	msgs := MotivationalMessages(books)
	return msgs[a.Intn(len(msgs))]
}

func goalSuggestions(books []*domain.Book, finishedThisMonth int) []string {
	var suggestions []string
	reading := countStatus(books, domain.StatusReading)

	if finishedThisMonth == 0 {
		suggestions = append(suggestions, "Aim to finish at least 1 book this month")
	} else if finishedThisMonth >= 3 {
		suggestions = append(suggestions, "You're exceeding expectations! Consider a slightly higher monthly goal")
	}

	if reading == 0 {
		suggestions = append(suggestions, "Start reading a book from your 'Want to Read' list")
	} else if reading > 3 {
		suggestions = append(suggestions, "Focus on finishing current books before starting new ones")
	}
	return suggestions
}

func (a *Analyzer) monthsSinceFirstBook(books []*domain.Book) int {
	if len(books) == 0 {
		return 1
	}
	first := books[0].DateAdded
	for _, b := range books[1:] {
		if b.DateAdded.Before(first) {
			first = b.DateAdded
		}
	}
	now := a.Now()
	months := (now.Year()-first.Year())*12 + int(now.Month()) - int(first.Month())
	return max(months, 1)
}

func defaultAnalysis() ReadingAnalysis {
	return ReadingAnalysis{
		CompletionRate: 0,
		ReadingPattern: "Just getting started - add some books to begin your reading journey!",
		Recommendations: []string{
			"Start by adding a few books you're interested in",
			"Set a small goal like reading 1 book per month",
			"Choose a mix of fiction and non-fiction to explore different styles",
		},
		ReadingSpeed:        "Add and finish books to track your reading pace",
		FavoriteGenres:      []string{"Discovering preferences"},
		ReadingStreak:       0,
		MotivationalInsight: "Every reading journey begins with a single page - start yours today!",
	}
}

func countStatus(books []*domain.Book, status domain.ReadingStatus) int {
	var n int
	for _, b := range books {
		if b.ReadingStatus == status {
			n++
		}
	}
	return n
}

func countFavorites(books []*domain.Book) int {
	var n int
	for _, b := range books {
		if b.IsFavorite {
			n++
		}
	}
	return n
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
