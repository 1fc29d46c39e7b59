package workers

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/habitflow/habitflow-api/internal/services"
)

// StartChallengeFinalizer closes expired challenges once an hour. Reward
// grants stay request-driven; this only flips the Closed flag so expired
// challenges stop accepting joins and progress.
func StartChallengeFinalizer(challenges *services.ChallengeService) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			closed, err := challenges.FinalizeExpired(time.Now())
			if err != nil {
				log.Printf("[scheduler] failed to finalize challenges: %v", err)
				return
			}
			if closed > 0 {
				log.Printf("[scheduler] closed %d expired challenges", closed)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
