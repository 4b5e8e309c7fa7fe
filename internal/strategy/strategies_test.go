package strategy_test

import (
	"strings"
	"testing"

	"github.com/uniwatch/uniwatch/internal/strategy"
)

const announcementsFixture = `
<div class="view-content">
  <div class="views-row">
    <a href="/announcement/101">Exam schedule published</a>
  </div>
  <div class="views-row">
    <a href="/announcement/100">Enrollment deadline</a>
  </div>
</div>`

func TestAnnouncements_Render(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "announcements")
	sel := firstPost(t, strat, announcementsFixture)

	post := strat.Render(sel)
	if post.ID != testBase+"/announcement/101" {
		t.Errorf("unexpected id: %q", post.ID)
	}
	if post.ID != strat.Identify(sel) {
		t.Error("rendered ID disagrees with Identify")
	}
	if post.Title != "Exam schedule published" {
		t.Errorf("unexpected title: %q", post.Title)
	}
	if post.URL != post.ID {
		t.Errorf("url should equal id, got %q", post.URL)
	}
}

const jobsFixture = `
<div class="views-row">
  <a href="/company/42">Acme Corp</a>
  <a href="/job/7">Junior Go engineer</a>
  <div class="col-xs-12 col-sm-8">
    <div class="field-content">We are hiring graduates for backend work.</div>
  </div>
  <img src="/logos/acme.png?itok=xyz">
</div>`

func TestJobs_Render(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "jobs")
	sel := firstPost(t, strat, jobsFixture)

	post := strat.Render(sel)
	if post.ID != testBase+"/job/7" {
		t.Errorf("id should come from the second link, got %q", post.ID)
	}
	if post.Title != "Junior Go engineer" {
		t.Errorf("unexpected title: %q", post.Title)
	}
	if post.Description != "We are hiring graduates for backend work." {
		t.Errorf("unexpected description: %q", post.Description)
	}
	if post.Thumbnail != "/logos/acme.png" {
		t.Errorf("thumbnail should have its query stripped, got %q", post.Thumbnail)
	}
}

func TestJobs_MissingLinkYieldsNoID(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "jobs")
	sel := firstPost(t, strat, `<div class="views-row"><span>broken row</span></div>`)

	if id := strat.Identify(sel); id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}

	// Render still produces a best-effort payload for error reporting.
	post := strat.Render(sel)
	if post.Identified() {
		t.Fatal("post should not be identified")
	}
	if post.Title == "" {
		t.Fatal("best-effort payload should carry a title placeholder")
	}
}

func TestJobs_DescriptionLimits(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "jobs")

	long := strings.Repeat("и", 600) // multi-byte runes must not be split
	fixture := strings.Replace(jobsFixture, "We are hiring graduates for backend work.", long, 1)
	post := strat.Render(firstPost(t, strat, fixture))
	if got := len([]rune(post.Description)); got != 500 {
		t.Fatalf("expected description truncated to 500 runes, got %d", got)
	}

	empty := strings.Replace(jobsFixture, "We are hiring graduates for backend work.", "", 1)
	post = strat.Render(firstPost(t, strat, empty))
	if post.Description != "No description provided." {
		t.Fatalf("expected placeholder description, got %q", post.Description)
	}
}

const courseFixture = `
<article>
  <h4><a href="#d1">Discussion</a><a href="https://courses.example-faculty.edu/post/955">Lab deadline moved</a></h4>
  <div><a href="https://courses.example-faculty.edu/user/9">Prof. Ana</a></div>
  <div class="d-flex flex-column">
    <div><a href="https://courses.example-faculty.edu/user/9&course=12">Prof. Ana</a></div>
  </div>
  <img title="Picture of Prof. Ana" src="https://courses.example-faculty.edu/avatar/9.png">
  <div class="post-content-container">The lab deadline is moved to Friday.</div>
  <a title="Permanent link to this post" href="https://courses.example-faculty.edu/post/955"></a>
</article>`

func TestCourse_Render(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "course")
	sel := firstPost(t, strat, courseFixture)

	post := strat.Render(sel)
	if post.ID != "https://courses.example-faculty.edu/post/955" {
		t.Errorf("unexpected id: %q", post.ID)
	}
	if post.Author == nil {
		t.Fatal("expected author block")
	}
	if post.Author.Name != "Prof. Ana" {
		t.Errorf("unexpected author: %q", post.Author.Name)
	}
	if post.Author.URL != "https://courses.example-faculty.edu/user/9" {
		t.Errorf("author url should drop view parameters, got %q", post.Author.URL)
	}
	if post.Description != "The lab deadline is moved to Friday." {
		t.Errorf("unexpected description: %q", post.Description)
	}
}

func TestCourse_RequestHeaders(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "course")
	auth, ok := strat.(strategy.Authenticated)
	if !ok {
		t.Fatal("course strategy must be authenticated")
	}

	if h := auth.RequestHeaders(""); h != nil {
		t.Fatal("no cookie should mean no extra headers")
	}

	h := auth.RequestHeaders("session=abc")
	if got := h.Get("Cookie"); got != "session=abc" {
		t.Fatalf("unexpected cookie header: %q", got)
	}
}

const diplomasFixture = `
<div class="panel">
  <div class="panel-heading">Defense of thesis no. 1204</div>
  <div class="panel-body">
    <table>
      <tr><td>Candidate</td><td>161123 - Jana Stojanova</td></tr>
      <tr><td>Mentor</td><td>Prof. B. Petrov</td></tr>
      <tr><td>Member 1</td><td>Prof. C. Ilieva</td></tr>
      <tr><td>Member 2</td><td>Prof. D. Ristov</td></tr>
      <tr><td>Date</td><td>2026-09-15 12:00</td></tr>
      <tr><td>Status</td><td>Scheduled</td></tr>
      <tr><td>Thesis</td><td><a href="/thesis/1204.pdf">download</a></td></tr>
      <tr><td>Abstract</td><td>A study of cache invalidation strategies.</td></tr>
    </table>
  </div>
</div>`

func TestDiplomas_Render(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "diplomas")
	sel := firstPost(t, strat, diplomasFixture)

	post := strat.Render(sel)
	if post.ID != "Defense of thesis no. 1204" {
		t.Errorf("id should be the panel heading, got %q", post.ID)
	}
	if post.Author == nil || post.Author.Name != "161123 - Jana Stojanova" {
		t.Fatalf("unexpected author: %+v", post.Author)
	}
	if len(post.Fields) != 5 {
		t.Fatalf("expected 5 fields, got %d", len(post.Fields))
	}
	if post.Fields[0].Value != "Prof. B. Petrov" {
		t.Errorf("unexpected mentor: %q", post.Fields[0].Value)
	}
	if post.Fields[4].Value != "Scheduled" {
		t.Errorf("unexpected status: %q", post.Fields[4].Value)
	}
	if post.URL != testBase+"/thesis/1204.pdf" {
		t.Errorf("unexpected url: %q", post.URL)
	}
	if post.Description != "A study of cache invalidation strategies." {
		t.Errorf("unexpected description: %q", post.Description)
	}
}

func TestDiplomas_JavascriptLinkDropped(t *testing.T) {
	t.Parallel()

	fixture := strings.Replace(diplomasFixture, `href="/thesis/1204.pdf"`, `href="javascript:void(0)"`, 1)

	strat := mustStrategy(t, "diplomas")
	post := strat.Render(firstPost(t, strat, fixture))
	if post.URL != "" {
		t.Fatalf("javascript links must not become post URLs, got %q", post.URL)
	}
}

func TestDiplomas_RequestHeadersIncludeUserAgent(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "diplomas")
	auth, ok := strat.(strategy.Authenticated)
	if !ok {
		t.Fatal("diplomas strategy must be authenticated")
	}

	h := auth.RequestHeaders("JSESSIONID=xyz")
	if h.Get("Cookie") != "JSESSIONID=xyz" {
		t.Fatalf("unexpected cookie header: %q", h.Get("Cookie"))
	}
	if !strings.Contains(h.Get("User-Agent"), "Mozilla") {
		t.Fatalf("expected browser user agent, got %q", h.Get("User-Agent"))
	}
}

const partnersFixture = `
<div class="partners">
  <div class="card">Gold partner
    <a href="https://partner-one.example.com">Partner One</a>
  </div>
  <div class="support">
    <a href="https://www.a1.com/about">A1 Group</a>
  </div>
</div>`

func TestPartners_Identify(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "partners")
	sel := firstPost(t, strat, partnersFixture)

	// Tier label stripped, whitespace collapsed.
	if id := strat.Identify(sel); id != "Partner One" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestPartners_SponsorCardCollapses(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "partners")
	sel := firstPost(t, strat, `<div class="support"><a href="https://www.a1.com/about">A1 Group something</a></div>`)

	if id := strat.Identify(sel); id != "A1" {
		t.Fatalf("sponsor card should collapse to fixed name, got %q", id)
	}
}

const timetablesFixture = `
<div class="row">
  <div class="col-sm-11">
    <a href="/docs/timetable-winter-v3.pdf">Winter semester timetable</a>
  </div>
</div>`

func TestTimetables_Render(t *testing.T) {
	t.Parallel()

	strat := mustStrategy(t, "timetables")
	sel := firstPost(t, strat, timetablesFixture)

	post := strat.Render(sel)
	// The identifier is the visible name: document hrefs change with each
	// uploaded revision.
	if post.ID != "Winter semester timetable" {
		t.Errorf("unexpected id: %q", post.ID)
	}
	if post.URL != testBase+"/docs/timetable-winter-v3.pdf" {
		t.Errorf("unexpected url: %q", post.URL)
	}
}
