package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/dmitrijs2005/trophy/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	ctx := context.Background()

	p, _ := env.createProject(t, owner, "alpha")
	assert.NotZero(t, p.ID)
	assert.Equal(t, owner.ID, p.OwnerID)

	view, err := env.projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", view.Title)
	assert.Equal(t, `["go","grpc"]`, view.TechStack)
	assert.Equal(t, int64(0), view.StarCount)
	assert.Equal(t, owner.ID, view.Owner.ID)
	assert.Equal(t, owner.Name, view.Owner.Name)
	assert.Equal(t, "CSE", view.Owner.Branch)

	_, err = env.projects.Get(ctx, 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestProjectService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")

	_, _, err := env.projects.Create(context.Background(), owner, models.ProjectInput{Title: "  "})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, _, err = env.projects.Create(context.Background(), nil, models.ProjectInput{Title: "x"})
	assert.ErrorIs(t, err, common.ErrIdentityNotFound)
}

func TestProjectService_ListSorting(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	fan := env.register(t, "fan@example.com")
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	env.projects.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	older, _ := env.createProject(t, owner, "older")
	newer, _ := env.createProject(t, owner, "newer")
	_, err := env.ledger.ToggleStar(ctx, fan, older.ID)
	require.NoError(t, err)

	ids := func(list []models.ProjectView) []int64 {
		out := make([]int64, 0, len(list))
		for _, v := range list {
			out = append(out, v.ID)
		}
		return out
	}

	list, err := env.projects.List(ctx, models.SortNewest)
	require.NoError(t, err)
	assert.Equal(t, []int64{newer.ID, older.ID}, ids(list))

	list, err = env.projects.List(ctx, models.SortMostStarred)
	require.NoError(t, err)
	assert.Equal(t, []int64{older.ID, newer.ID}, ids(list))
	assert.Equal(t, int64(1), list[0].StarCount)

	list, err = env.projects.List(ctx, "bogus")
	require.NoError(t, err)
	assert.Equal(t, []int64{newer.ID, older.ID}, ids(list))
}

func TestProjectService_UpdateOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	other := env.register(t, "other@example.com")
	p, _ := env.createProject(t, owner, "alpha")
	ctx := context.Background()

	title, demo := "alpha v2", "https://demo.example.com"
	patch := models.ProjectPatch{Title: &title, DemoLink: &demo}

	_, err := env.projects.Update(ctx, other, p.ID, patch)
	assert.ErrorIs(t, err, common.ErrForbidden)

	updated, err := env.projects.Update(ctx, owner, p.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "alpha v2", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, demo, updated.DemoLink)
	assert.False(t, updated.UpdatedAt.Before(p.UpdatedAt))

	view, err := env.projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha v2", view.Title)

	blank := ""
	_, err = env.projects.Update(ctx, owner, p.ID, models.ProjectPatch{Title: &blank})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = env.projects.Update(ctx, owner, 999, patch)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestProjectService_DeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	other := env.register(t, "other@example.com")
	p, _ := env.createProject(t, owner, "alpha")
	ctx := context.Background()

	assert.ErrorIs(t, env.projects.Delete(ctx, other, p.ID), common.ErrForbidden)
	require.NoError(t, env.projects.Delete(ctx, owner, p.ID))

	_, err := env.projects.Get(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, env.projects.Delete(ctx, owner, p.ID), common.ErrorNotFound)
}

func TestProjectService_MediaUploadURL(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	other := env.register(t, "other@example.com")
	p, _ := env.createProject(t, owner, "alpha")
	ctx := context.Background()

	up, err := env.projects.MediaUploadURL(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.Key, "projects/"))
	assert.Contains(t, up.URL, "/"+env.cfg.S3Bucket+"/"+up.Key)
	assert.Contains(t, up.URL, "X-Amz-Expires=900")
	assert.WithinDuration(t, time.Now().Add(mediaURLValidity), up.ExpiresAt, time.Minute)

	_, err = env.projects.MediaUploadURL(ctx, other, p.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestProjectService_MediaUploadURL_PresignSeams(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	p, _ := env.createProject(t, owner, "alpha")

	origPresign := presignPutObject
	t.Cleanup(func() { presignPutObject = origPresign })

	var gotBucket, gotKey string
	presignPutObject = func(_ *s3.PresignClient, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket, gotKey = aws.ToString(in.Bucket), aws.ToString(in.Key)
		return &v4.PresignedHTTPRequest{URL: "https://minio.local/signed"}, nil
	}

	up, err := env.projects.MediaUploadURL(context.Background(), owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/signed", up.URL)
	assert.Equal(t, env.cfg.S3Bucket, gotBucket)
	assert.Equal(t, up.Key, gotKey)

	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign failed")
	}
	_, err = env.projects.MediaUploadURL(context.Background(), owner, p.ID)
	assert.EqualError(t, err, "presign failed")
}

func TestProjectService_MediaUploadURL_ConfigError(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	p, _ := env.createProject(t, owner, "alpha")

	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := env.projects.MediaUploadURL(context.Background(), owner, p.ID)
	assert.EqualError(t, err, "no config")
}

func TestProjectMediaKey(t *testing.T) {
	a, b := projectMediaKey(7), projectMediaKey(7)
	assert.True(t, strings.HasPrefix(a, "projects/7/"))
	assert.NotEqual(t, a, b)
}
