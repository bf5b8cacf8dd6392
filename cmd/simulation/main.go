package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"ux-collector-be/pkg/experiment"
	"ux-collector-be/pkg/layout"
	"ux-collector-be/pkg/submit"

	"github.com/fatih/color"
)

var (
	desktop = experiment.DeviceDescriptor{
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) Simulation/1.0",
		ViewportW: 1440,
		ViewportH: 900,
	}
	mobile = experiment.DeviceDescriptor{
		UserAgent:     "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Simulation/1.0",
		ViewportW:     390,
		ViewportH:     844,
		CoarsePointer: true,
	}

	reasons = []string{
		"I picked the one on the left because it looked cheaper",
		"The right card had the clearer label",
		"Top option seemed recommended",
		"bottom one, no real reason",
	}
)

func main() {
	url := flag.String("url", "http://localhost:3000/api/collect", "collect endpoint")
	sessions := flag.Int("n", 5, "number of synthetic sessions")
	mobileShare := flag.Float64("mobile", 0.4, "share of sessions simulated on a phone")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed>>1))
	client := submit.NewClient(*url)

	fmt.Println("=== UX Collector Simulation ===")
	fmt.Printf("Endpoint: %s, sessions: %d, seed: %d\n", *url, *sessions, *seed)

	failed := 0
	for i := 1; i <= *sessions; i++ {
		device := desktop
		if rng.Float64() < *mobileShare {
			device = mobile
		}
		payload := simulateSession(rng, device)

		client.OnStatus = func(s string) {
			fmt.Printf("[%d/%d] %s\n", i, *sessions, s)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		res, err := client.Submit(ctx, payload)
		cancel()
		if err != nil {
			failed++
			color.Red("  %v", err)
			continue
		}
		color.Green("  stored as %s", res.Key)
	}

	if failed > 0 {
		color.Yellow("%d of %d submissions failed", failed, *sessions)
		os.Exit(1)
	}
}

// simulateSession plays one visit: variant assignment, the exp5 to exp7 interactions, and a survey.
func simulateSession(rng *rand.Rand, device experiment.DeviceDescriptor) experiment.Payload {
	s := experiment.NewSession()
	s.Start("exp1", pick(rng, "control", "treatment"))
	exp4 := s.Start("exp4", pick(rng, "default-standard", "default-express"))
	exp4["extra"] = map[string]any{"defaultOption": pick(rng, "standard", "express")}
	s.Start("exp5", "A")
	s.Start("exp6", pick(rng, "grid-a", "grid-b"))
	exp7 := s.Start("exp7", "black-button")
	exp7["blackLeft"] = rng.IntN(2) == 0

	page := syntheticPage(device.IsMobile())

	if u, ok := experiment.Exp5Next(s, experiment.Exp5NextButton, pick(rng, "standard", "express", "")); ok {
		s.Apply(u)
	}
	card := layout.ElementRef(fmt.Sprintf("exp6-card-%d-btn", rng.IntN(3)))
	if u, ok := experiment.Exp6Choose(page, s, card); ok {
		s.Apply(u)
	}
	target := experiment.Exp7LeftButton
	if rng.IntN(2) == 0 {
		target = experiment.Exp7RightButton
	}
	if u, ok := experiment.Exp7Click(page, s, target); ok {
		s.Apply(u)
	}

	exp6 := s.Slot("exp6")
	exp6["reason"] = reasons[rng.IntN(len(reasons))]
	s.SetSurvey("condition", s.Slot("exp1").Variant())
	s.SetSurvey("age", 18+rng.IntN(50))

	builder := experiment.NewBuilder(func() experiment.DeviceDescriptor { return device })
	return builder.Build(s.State())
}

// syntheticPage lays exp6's cards out in a row on desktop and in a column on a phone.
func syntheticPage(isMobile bool) *layout.StaticLocator {
	elements := []layout.StaticElement{
		{Ref: experiment.Exp6Grid, Box: layout.Box{Width: 900, Height: 300}},
		{Ref: experiment.Exp7LeftButton, Box: layout.Box{Left: 100, Top: 600, Width: 120, Height: 40}},
		{Ref: experiment.Exp7RightButton, Box: layout.Box{Left: 300, Top: 600, Width: 120, Height: 40}},
	}
	for i := 0; i < 3; i++ {
		box := layout.Box{Left: float64(i * 300), Width: 280, Height: 280}
		if isMobile {
			box = layout.Box{Top: float64(i * 300), Width: 360, Height: 280}
		}
		cardRef := layout.ElementRef(fmt.Sprintf("exp6-card-%d", i))
		elements = append(elements,
			layout.StaticElement{Ref: cardRef, Parent: experiment.Exp6Grid, Roles: []string{experiment.RoleCard}, Box: box},
			layout.StaticElement{Ref: cardRef + "-btn", Parent: cardRef, Roles: []string{experiment.RoleExp6Choose}},
		)
	}
	return layout.NewStaticLocator(elements...)
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.IntN(len(options))]
}
