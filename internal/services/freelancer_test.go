package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFreelancerFilterQueryDefaults(t *testing.T) {
	q, err := FreelancerFilter{}.query()
	require.NoError(t, err)
	assert.Equal(t, bson.M{"is_active": true}, q)
}

func TestFreelancerFilterQueryLocationIsCaseInsensitiveExact(t *testing.T) {
	q, err := FreelancerFilter{County: "Nairobi"}.query()
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$regex": "^Nairobi$", "$options": "i"}, q["county"])
}

func TestFreelancerFilterQueryNumericBounds(t *testing.T) {
	q, err := FreelancerFilter{MinRating: "4.5", MinExperience: "3"}.query()
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$gte": 4.5}, q["rating"])
	assert.Equal(t, bson.M{"$gte": 3}, q["years_experience"])
}

func TestFreelancerFilterQueryProfessionID(t *testing.T) {
	id := primitive.NewObjectID()
	q, err := FreelancerFilter{ProfessionID: id.Hex()}.query()
	require.NoError(t, err)
	assert.Equal(t, id, q["profession_id"])
}

func TestFreelancerFilterQuerySearch(t *testing.T) {
	q, err := FreelancerFilter{Search: "plumb"}.query()
	require.NoError(t, err)
	or, ok := q["$or"].([]bson.M)
	require.True(t, ok)
	assert.Len(t, or, 3)
}

func TestFreelancerFilterQueryFeatured(t *testing.T) {
	q, err := FreelancerFilter{FeaturedOnly: true}.query()
	require.NoError(t, err)
	assert.Equal(t, true, q["is_featured"])
}

func TestFreelancerFilterQueryRejectsBadInput(t *testing.T) {
	_, err := FreelancerFilter{ProfessionID: "not-an-id"}.query()
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = FreelancerFilter{MinRating: "high"}.query()
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = FreelancerFilter{MinExperience: "some"}.query()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
