package seeds_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	admissionService "schoolhub_backend/internals/features/admissions/service"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	authService "schoolhub_backend/internals/features/users/auth/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
	"schoolhub_backend/internals/helpers/mailer"
	helperOSS "schoolhub_backend/internals/helpers/oss"
	"schoolhub_backend/internals/seeds"
)

func TestLoadDataset(t *testing.T) {
	ds, err := seeds.LoadDataset()
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Admin.Email)
	assert.Len(t, ds.Subjects, 4)
	assert.Len(t, ds.Classes, 3)
	require.Len(t, ds.Applications, 1)
	assert.Equal(t, "APP-2024-001234", ds.Applications[0].Number)
}

func TestRunAllSeeds_Idempotent(t *testing.T) {
	t.Setenv("SEED_ADMIN_PASSWORD", "seed-pass-1")
	db := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, seeds.RunAllSeeds(ctx, db))
	require.NoError(t, seeds.RunAllSeeds(ctx, db))

	var admins []userModel.UserModel
	require.NoError(t, db.Where("role = ?", constants.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.True(t, authService.CheckPassword(admins[0].Password, "seed-pass-1"))

	var subjects, classes int64
	require.NoError(t, db.Model(&subjectModel.SubjectModel{}).Count(&subjects).Error)
	require.NoError(t, db.Model(&classModel.ClassModel{}).Count(&classes).Error)
	assert.EqualValues(t, 4, subjects)
	assert.EqualValues(t, 3, classes)
}

func TestRunAllSeeds_ApplicationLookup(t *testing.T) {
	db := dbtest.New(t)
	require.NoError(t, seeds.RunAllSeeds(context.Background(), db))

	svc := admissionService.NewAdmissionService(db, helperOSS.NewMemoryBlobStore("http://files.test"), mailer.NewConsoleMailer())
	res, err := svc.Lookup(context.Background(), "app-2024-001234")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", res.ApplicantName)
	assert.Equal(t, constants.AdmissionPending, res.Status)
	require.Len(t, res.Timeline, 1)
	assert.Equal(t, admissionService.TimelineSubmitted, res.Timeline[0].Title)
}
