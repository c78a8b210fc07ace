package seed

import (
	"context"
	"testing"
	"time"

	"questionbank/internal/models"
	"questionbank/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestBuildDefaultFixture(t *testing.T) {
	f, err := LoadFixture(nil)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ds, err := Build(f, now)
	require.NoError(t, err)

	assert.Len(t, ds.Users, 2)
	assert.Len(t, ds.Subjects, 2)
	assert.Len(t, ds.Questions, 6)
	assert.Len(t, ds.Answers, 2)

	admin, student := ds.Users[0], ds.Users[1]
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.True(t, utils.CheckPassword(admin.PasswordHash, "admin123"))
	assert.True(t, utils.CheckPassword(student.PasswordHash, "student123"))

	math := ds.Subjects[0]
	first := ds.Questions[0]
	assert.Equal(t, "2 + 2 equals 4", first.QuestionText)
	assert.Equal(t, math.ID, first.SubjectID)
	assert.Equal(t, admin.ID, first.User)
	assert.Equal(t, "true", first.CorrectAnswer)
	assert.Equal(t, []string{"x", "2x", "x²", "2"}, ds.Questions[1].Options)

	for _, a := range ds.Answers {
		assert.Equal(t, student.ID, a.StudentID)
	}
	assert.Equal(t, first.ID, ds.Answers[0].QuestionID)
	assert.True(t, ds.Answers[0].IsCorrect)
	assert.Equal(t, ds.Questions[1].ID, ds.Answers[1].QuestionID)
	assert.Equal(t, 0, ds.Answers[1].Score)
}

func TestBuildRejectsDanglingReference(t *testing.T) {
	f, err := LoadFixture([]byte(`
subjects:
  - key: math
    name: Mathematics
questions:
  - key: q
    subject: physics
    questionText: Why?
`))
	require.NoError(t, err)

	_, err = Build(f, time.Now())
	assert.ErrorContains(t, err, `unknown subject "physics"`)
}

func TestApply(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("wipes then inserts", func(mt *mtest.T) {
		ds := &Dataset{
			Users:    []models.User{{Email: "admin@questionbank.com"}},
			Subjects: []models.Subject{{Name: "Mathematics"}},
		}
		ok := mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0})
		mt.AddMockResponses(ok, ok, ok, ok, mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		require.NoError(mt, Apply(context.Background(), mt.DB, ds))
	})

	mt.Run("stops on failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		err := Apply(context.Background(), mt.DB, &Dataset{})
		assert.ErrorContains(mt, err, "clear users")
	})
}
