package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"go-transfer/internal/config"
	"go-transfer/internal/database"
	"go-transfer/internal/features/contact"
	"go-transfer/internal/features/process"
	"go-transfer/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type seedData struct {
	Persons       []contact.Person       `json:"persons"`
	Organizations []contact.Organization `json:"organizations"`
}

// Seed inserts demo contacts and one transfer process unless contacts
// already exist.
func Seed(
	lc fx.Lifecycle,
	contacts contact.ContactRepository,
	processes process.ProcessRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()

				if err := run(ctx, contacts, processes, logger); err != nil {
					logger.Error("Seeding failed", zap.Error(err))
					return
				}
				logger.Info("Seeding finished")
			}()
			return nil
		},
	})
}

func run(ctx context.Context, contacts contact.ContactRepository, processes process.ProcessRepository, logger *zap.Logger) error {
	existing, err := contacts.ListPersons(ctx, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("Contacts exist, skipping")
		return nil
	}

	// Data path assumes running from the repository root
	b, err := os.ReadFile("cmd/seed/data/demo.json")
	if err != nil {
		return err
	}
	var data seedData
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range data.Persons {
		p := &data.Persons[i]
		g.Go(func() error {
			return contacts.CreatePerson(gctx, p)
		})
	}
	for i := range data.Organizations {
		o := &data.Organizations[i]
		g.Go(func() error {
			return contacts.CreateOrganization(gctx, o)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Contacts created", zap.Int("persons", len(data.Persons)), zap.Int("organizations", len(data.Organizations)))

	if len(data.Persons) < 2 || len(data.Organizations) < 2 {
		return nil
	}
	p, err := demoProcess(data, time.Now())
	if err != nil {
		return err
	}
	if _, err := processes.Create(ctx, &p); err != nil {
		return err
	}
	logger.Info("Demo process created", zap.String("processID", p.ID.Hex()))
	return nil
}

// demoProcess builds a transfer of the first person to the first club, with
// the second person as agent.
func demoProcess(data seedData, now time.Time) (process.Process, error) {
	agent := data.Persons[1].ID.Hex()
	priority := 4
	p := process.Process{
		SubjectID:      data.Persons[0].ID.Hex(),
		CounterpartyID: data.Organizations[0].ID.Hex(),
		Kind:           process.KindTransfer,
		Status:         process.StatusInProgress,
		StartDate:      now,
		Steps:          []process.Step{},
	}

	chance := 60
	category := process.CategoryContractReview
	var err error
	if p, err = process.SetPriority(p, &priority); err != nil {
		return p, err
	}
	p = process.SetAssignee(p, &agent)
	if p, err = process.UpsertStep(p, process.Step{Kind: "Medical", When: now.AddDate(0, 0, 3), SuccessChance: &chance, Checklist: []string{"Blood test", "MRI"}}); err != nil {
		return p, err
	}
	if p, err = process.UpsertReminder(p, process.Reminder{When: now.AddDate(0, 0, 1), Description: "Vertragsentwurf prüfen", Category: &category}); err != nil {
		return p, err
	}
	if p, err = process.UpsertNote(p, process.Note{Description: "Verein wünscht Kaufoption"}); err != nil {
		return p, err
	}
	return p, nil
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			contact.NewContactRepository,
			process.NewProcessRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
