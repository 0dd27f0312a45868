// Package e2e provides end-to-end tests that search a generated corpus of document files.
package e2e

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TagGroups is the number of "group-N" tags spread round-robin over the corpus.
const TagGroups = 5

// E2EDocument is a note in the E2E corpus. Signature is a phrase found only in its Content.
type E2EDocument struct {
	ID        string
	Title     string
	Tags      []string
	Signature string
	Content   string
}

// FileName is the markdown file the document is written to.
func (d E2EDocument) FileName() string {
	return d.ID + ".md"
}

// Markdown renders the document with a frontmatter block carrying its title and tags.
func (d E2EDocument) Markdown() string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", d.Title)
	fmt.Fprintf(&b, "tags: [%s]\n", strings.Join(d.Tags, ", "))
	b.WriteString("---\n")
	fmt.Fprintf(&b, "# %s\n\n%s\n", d.Title, d.Content)
	return b.String()
}

// QueryTestCase defines a query and the document ID(s) that must appear in search results.
type QueryTestCase struct {
	Query          string
	ExpectedDocIDs []string
	Description    string
}

// Corpus holds documents and query test cases for E2E tests.
type Corpus struct {
	Documents    []E2EDocument
	TestCases    []QueryTestCase
	TotalDocs    int
	TotalQueries int
}

// BuildCorpus returns a corpus of 100 notes and a query test case for each of the first 50.
func BuildCorpus() *Corpus {
	docs := buildDocuments(100)
	cases := buildQueryTestCases(docs)
	return &Corpus{
		Documents:    docs,
		TestCases:    cases,
		TotalDocs:    len(docs),
		TotalQueries: len(cases),
	}
}

// WriteCorpus writes every document as a markdown file under dir. Modification times are
// spaced one day apart going back from base, so document i is i days older than the first.
func (c *Corpus) WriteCorpus(dir string, base time.Time) error {
	for i, d := range c.Documents {
		path := filepath.Join(dir, d.FileName())
		if err := os.WriteFile(path, []byte(d.Markdown()), 0644); err != nil {
			return fmt.Errorf("write %s: %w", d.ID, err)
		}
		mtime := base.AddDate(0, 0, -i)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			return fmt.Errorf("chtimes %s: %w", d.ID, err)
		}
	}
	return nil
}

func buildDocuments(n int) []E2EDocument {
	notes := []struct {
		title     string
		signature string
		body      string
	}{
		{"Weekly Planning", "weekly planning ritual", "Sunday evening is for the weekly planning ritual: review the calendar, pick three outcomes, park the rest."},
		{"Sourdough Log", "sourdough starter feeding", "Day 6 of the sourdough starter feeding schedule. Doubled in five hours at room temperature."},
		{"Lisbon Trip", "Lisbon tram 28", "Ride Lisbon tram 28 early before the queues. Pastel de nata stop in Belem afterwards."},
		{"Go Worker Pools", "goroutines and channels", "Fan work out with goroutines and channels, close the jobs channel when done, wait on a WaitGroup."},
		{"Reading Notes Deep Work", "deep work blocks", "Schedule deep work blocks in the morning. Shallow tasks get batched after lunch."},
		{"Garden Beds", "raised bed compost", "Top up each raised bed compost layer in March. Tomatoes go in the south bed this year."},
		{"Standup 2024-03-04", "flaky integration suite", "Blocked on the flaky integration suite again. Pairing with Sam to bisect the timeout."},
		{"Home Network", "mesh router placement", "Moved the mesh router placement to the hallway shelf; office signal went from two bars to four."},
		{"Postgres Tuning", "shared_buffers sizing", "Rule of thumb for shared_buffers sizing is a quarter of RAM, then measure the cache hit ratio."},
		{"Bike Maintenance", "Chain lube interval", "Chain lube interval is roughly every 300 km, sooner after rain rides."},
		{"Book Club March", "unreliable narrator debate", "The unreliable narrator debate ran long. Next pick is a short story collection."},
		{"Kubernetes Health Checks", "readiness check timeout", "Raised the readiness check timeout to 5s after the cold cache caused restarts."},
		{"Running Plan", "tempo run pacing", "Tuesday is tempo run pacing at 4:50/km, Thursday easy, Saturday long."},
		{"Tax Checklist", "receipts folder scan", "Do the receipts folder scan before April. Home office costs go in the separate sheet."},
		{"Vim Tricks", "macro register replay", "Record with qa, then use macro register replay with @a, or 10@a across lines."},
		{"Coffee Ratios", "pour over ratio", "Current pour over ratio is 1:16 with a 45 second bloom."},
		{"Incident 42", "stale DNS cache", "Root cause was a stale DNS cache on the proxy hosts after the failover."},
		{"Piano Practice", "left hand arpeggios", "Ten minutes of left hand arpeggios before the Chopin piece, slow with a metronome."},
		{"Moving Boxes", "Kitchen box inventory", "Kitchen box inventory: box 3 has the knives, box 7 the good plates."},
		{"API Pagination", "cursor based pagination", "Switching the list endpoints to cursor based pagination so deep pages stay cheap."},
		{"Camping Gear", "sleeping pad R-value", "Need a sleeping pad R-value of at least 4 for the October trip."},
		{"Interview Notes", "system design round", "The system design round focused on rate limits and a read-heavy cache."},
		{"Git Rebase", "interactive rebase fixup", "Use interactive rebase fixup commits to tidy the branch before review."},
		{"Houseplants", "Monstera watering schedule", "Monstera watering schedule: every ten days in winter, weekly in summer."},
		{"Podcast Ideas", "guest outreach list", "Start the guest outreach list with people from the local meetup."},
		{"Terraform State", "remote state locking", "Enable remote state locking before the second engineer joins the repo."},
		{"Spanish Vocab", "irregular preterite verbs", "Drill the irregular preterite verbs: tener, estar, poder, hacer."},
		{"Car Service", "Timing belt replacement", "Timing belt replacement due at 120k km, quote from the garage next week."},
		{"Log Pipeline", "structured log fields", "Standardize structured log fields: request_id, user_id, duration_ms."},
		{"Birthday Ideas", "handmade photo album", "A handmade photo album for Mum, prints ordered by the 10th."},
		{"Search Relevance", "edit distance threshold", "Lowering the edit distance threshold cut noisy fuzzy matches in half."},
		{"Meal Prep", "Batch cooked lentils", "Batch cooked lentils last four days in the fridge; freeze the rest."},
		{"Security Review", "least privilege roles", "Audit service accounts for least privilege roles before the SOC report."},
		{"Photography", "Golden hour settings", "Golden hour settings: f/4, ISO 200, shoot into the light for flare."},
		{"Retro Sprint 12", "too many meetings", "Team said too many meetings again; try no-meeting Wednesdays."},
		{"Markdown Notes", "frontmatter tags field", "Every note gets a frontmatter tags field so filters work."},
		{"Wedding Plans", "venue deposit deadline", "The venue deposit deadline is the end of the month."},
		{"Cache Invalidation", "write-through cache", "A write-through cache keeps reads fresh at the cost of slower writes."},
		{"Climbing Log", "overhang project route", "Fell twice on the overhang project route at the crux jug."},
		{"Budget 2024", "Emergency fund target", "Emergency fund target is six months of fixed costs."},
		{"Feature Flags", "percentage rollout", "Start the percentage rollout at 5 percent and watch error rates."},
		{"Dentist", "six month checkup", "Booked the six month checkup for the first week of June."},
		{"Rust Ownership", "borrow checker errors", "Most borrow checker errors went away once the struct owned its buffer."},
		{"Board Games", "Cooperative game night", "Cooperative game night works better with four players than six."},
		{"Backups", "Offsite backup rotation", "Offsite backup rotation: swap the drive at the office every Friday."},
		{"Japanese Trip", "rail pass activation", "Do the rail pass activation at the airport office on arrival."},
		{"Observability", "trace sampling rate", "Dropped the trace sampling rate to 10 percent; storage costs halved."},
		{"Knitting", "cable stitch pattern", "The cable stitch pattern repeats every eight rows."},
		{"Onboarding", "First week checklist", "First week checklist: laptop, accounts, a buddy, one small merged change."},
		{"Sleep", "screen curfew experiment", "The screen curfew experiment at 22:00 helped after about a week."},
		{"Docker Builds", "multi-stage build cache", "Ordering COPY steps right keeps the multi-stage build cache warm."},
		{"Volunteering", "food bank shift", "Saturday food bank shift from 9 to 12, bring gloves."},
		{"Error Budgets", "monthly error budget", "We burned most of the monthly error budget in one bad deploy."},
		{"Guitar", "Barre chord transitions", "Barre chord transitions are still slow between F and B flat."},
		{"Apartment Hunt", "commute time filter", "Apply a commute time filter of 35 minutes door to door."},
		{"gRPC Notes", "deadline propagation", "Always pass context for deadline propagation across service hops."},
		{"Newsletter", "issue draft outline", "The issue draft outline has three links and one longer essay."},
		{"Yoga", "morning flow sequence", "The morning flow sequence takes twenty minutes with the sun salutations."},
		{"Load Testing", "ramp up profile", "The ramp up profile goes from 10 to 500 users over five minutes."},
		{"Recipes", "Slow roasted tomatoes", "Slow roasted tomatoes: three hours at 120C with garlic and thyme."},
		{"Conference Talk", "talk abstract draft", "The talk abstract draft needs a sharper first sentence."},
		{"Password Manager", "shared family vault", "Moved the streaming logins into the shared family vault."},
		{"Schema Migrations", "backwards compatible migration", "Ship a backwards compatible migration first, then deploy the code."},
		{"Bird Watching", "heron nesting site", "The heron nesting site by the canal has three nests this spring."},
		{"Code Review", "Small pull requests", "Small pull requests get reviewed the same day; big ones rot."},
		{"Fitness", "Kettlebell swing form", "Kettlebell swing form: hinge at the hips, not a squat."},
		{"Insurance", "policy renewal date", "The policy renewal date moved to September after the switch."},
		{"Message Queues", "dead letter queue", "Poison messages land in the dead letter queue after five retries."},
		{"Painting", "Watercolor wet on wet", "Watercolor wet on wet works for skies; dry brush for the trees."},
		{"Laptop Setup", "dotfiles bootstrap script", "The dotfiles bootstrap script installs brew packages and links configs."},
		{"Parenting", "Bedtime story rotation", "Bedtime story rotation: one picture book, one chapter."},
		{"TLS Certificates", "certificate expiry alert", "Add a certificate expiry alert at 21 days before renewal."},
		{"Chess", "endgame king activity", "In the endgame king activity matters more than a pawn."},
		{"Mentoring", "career growth conversation", "Had the career growth conversation with Priya; she wants to lead a project."},
		{"Wine Notes", "dry riesling tasting", "The dry riesling tasting favored the Mosel bottle."},
		{"Rate Limiting", "token bucket limiter", "A token bucket limiter per API key smooths bursts."},
		{"Hiking", "ridge trail loop", "The ridge trail loop is 14 km with 800 m of climbing."},
		{"Writing Habit", "morning pages streak", "The morning pages streak is at 40 days."},
		{"DNS Setup", "CNAME flattening", "The apex domain needs CNAME flattening at the provider."},
		{"Cooking Class", "knife skills session", "The knife skills session covered julienne and brunoise."},
		{"On-Call", "pager handoff notes", "Write pager handoff notes before the Monday rotation."},
		{"Swimming", "Flip turn drills", "Flip turn drills at the end of every set this month."},
		{"Refactoring", "extract function refactor", "An extract function refactor made the parser readable again."},
		{"Holiday Cards", "Address label printing", "Address label printing works from the spreadsheet export."},
		{"Concurrency Bugs", "data race detector", "The data race detector caught the shared map write in tests."},
		{"Astronomy", "Meteor shower viewing", "Meteor shower viewing peaks after midnight on the 12th."},
		{"Accessibility", "screen reader labels", "Added screen reader labels to every icon button."},
		{"Pottery", "Wheel centering practice", "Wheel centering practice is finally clicking."},
		{"Static Sites", "incremental site rebuild", "The incremental site rebuild takes two seconds now."},
		{"Language Exchange", "conversation partner schedule", "The conversation partner schedule is Tuesdays at 7."},
		{"Benchmarks", "allocation per operation", "Cut allocation per operation from 12 to 3 in the hot loop."},
		{"Furniture", "Bookshelf wall anchors", "Bookshelf wall anchors go into the studs, not drywall plugs."},
		{"Service Mesh", "Sidecar memory overhead", "Sidecar memory overhead is 40 MB per pod in our cluster."},
		{"Film List", "noir double feature", "Planning a noir double feature for Friday."},
		{"Secrets", "secret rotation job", "The secret rotation job runs nightly and restarts consumers."},
		{"Composting", "brown to green ratio", "Keep the brown to green ratio near three to one."},
		{"Documentation", "runbook template", "Every alert links to a runbook template with owner and steps."},
		{"Cycling Tour", "daily distance plan", "The daily distance plan averages 80 km with one rest day."},
		{"Property Testing", "Shrinking counterexamples", "Shrinking counterexamples turned a 200 element failure into 3."},
		{"Year Review", "annual review themes", "The annual review themes were health, craft and friends."},
	}

	out := make([]E2EDocument, 0, n)
	for i := 0; i < n; i++ {
		note := notes[i%len(notes)]
		title := note.title
		if i >= len(notes) {
			title = fmt.Sprintf("%s (%d)", note.title, i+1)
		}
		out = append(out, E2EDocument{
			ID:        fmt.Sprintf("e2e-doc-%03d", i+1),
			Title:     title,
			Tags:      []string{"e2e", fmt.Sprintf("group-%d", i%TagGroups)},
			Signature: note.signature,
			Content:   note.body,
		})
	}
	return out
}

// queryCaseCount is how many documents, from the start of the corpus, get a query test case.
const queryCaseCount = 50

// buildQueryTestCases queries each of the first documents by its signature phrase.
func buildQueryTestCases(docs []E2EDocument) []QueryTestCase {
	var cases []QueryTestCase
	for i, d := range docs {
		if i >= queryCaseCount {
			break
		}
		cases = append(cases, QueryTestCase{
			Query:          d.Signature,
			ExpectedDocIDs: []string{d.ID},
			Description:    fmt.Sprintf("query %q should return doc %s", d.Signature, d.ID),
		})
	}
	return cases
}

func containsPhrase(d E2EDocument, phrase string) bool {
	return strings.Contains(d.Title, phrase) || strings.Contains(d.Content, phrase)
}
