package main

import (
	"testing"
	"time"

	"go-transfer/internal/features/contact"
	"go-transfer/internal/features/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDemoProcess(t *testing.T) {
	data := seedData{
		Persons:       []contact.Person{{ID: primitive.NewObjectID()}, {ID: primitive.NewObjectID()}},
		Organizations: []contact.Organization{{ID: primitive.NewObjectID()}, {ID: primitive.NewObjectID()}},
	}
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	p, err := demoProcess(data, now)
	require.NoError(t, err)

	assert.Equal(t, data.Persons[0].ID.Hex(), p.SubjectID)
	require.NotNil(t, p.AssigneeID)
	assert.Equal(t, data.Persons[1].ID.Hex(), *p.AssigneeID)
	assert.Equal(t, process.PriorityMedium, process.Classify(p.Priority))
	require.Len(t, p.Steps, 1)
	require.Len(t, p.Reminders, 1)
	require.Len(t, p.Notes, 1)
	assert.NotEmpty(t, p.Reminders[0].ID)
	assert.True(t, p.IsDraft())
}
