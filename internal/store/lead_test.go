package store

import (
	"context"
	"testing"

	"github.com/leadbase/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadRepository_CreateAndList(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, types.LeadInput{
		Name:   strPtr("Ana"),
		Email:  strPtr("ana@x.com"),
		Phone:  strPtr("555-0101"),
		Status: strPtr(types.StatusRegistered),
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	leads, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)

	lead := leads[0]
	assert.Equal(t, id, lead.ID)
	assert.Equal(t, "Ana", lead.Name)
	assert.Equal(t, "ana@x.com", lead.Email)
	require.NotNil(t, lead.Phone)
	assert.Equal(t, "555-0101", *lead.Phone)
	assert.Nil(t, lead.Gender)
	require.NotNil(t, lead.Status)
	assert.Equal(t, types.StatusRegistered, *lead.Status)
}

func TestLeadRepository_ListEmpty(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))

	leads, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
}

func TestLeadRepository_CreateRequiresName(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))

	_, err := repo.Create(context.Background(), types.LeadInput{Email: strPtr("x@x.com")})
	assert.Error(t, err)
}

func TestLeadRepository_UpdateOverwritesAllFields(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, types.LeadInput{
		Name: strPtr("Ana"), Email: strPtr("ana@x.com"), Phone: strPtr("1"), Gender: strPtr("F"),
		Status: strPtr(types.StatusRegistered),
	})
	require.NoError(t, err)

	changes, err := repo.Update(ctx, id, types.LeadInput{
		Name: strPtr("Bia"), Email: strPtr("bia@x.com"), Gender: strPtr("M"), Status: strPtr("2-contatado"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, changes)

	leads, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Bia", leads[0].Name)
	assert.Equal(t, "bia@x.com", leads[0].Email)
	assert.Nil(t, leads[0].Phone, "omitted phone is overwritten with NULL")
	assert.Equal(t, "M", *leads[0].Gender)
	assert.Equal(t, "2-contatado", *leads[0].Status)
}

func TestLeadRepository_UpdateMissingID(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))

	changes, err := repo.Update(context.Background(), 999, types.LeadInput{Name: strPtr("x"), Email: strPtr("y")})
	require.NoError(t, err)
	assert.Zero(t, changes)
}

func TestLeadRepository_UpdateNullNameFails(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, types.LeadInput{Name: strPtr("Ana"), Email: strPtr("ana@x.com")})
	require.NoError(t, err)

	_, err = repo.Update(ctx, id, types.LeadInput{Email: strPtr("ana@x.com")})
	assert.Error(t, err)
}

func TestLeadRepository_Delete(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, types.LeadInput{Name: strPtr("Ana"), Email: strPtr("ana@x.com")})
	require.NoError(t, err)

	changes, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changes)

	changes, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, changes)

	leads, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestLeadRepository_CountByGender(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))
	ctx := context.Background()

	for _, g := range []*string{strPtr("M"), strPtr("F"), strPtr("M"), nil, strPtr("")} {
		_, err := repo.Create(ctx, types.LeadInput{Name: strPtr("n"), Email: strPtr("e"), Gender: g})
		require.NoError(t, err)
	}

	rows, err := repo.CountByGender(ctx)
	require.NoError(t, err)

	counts := map[string]int64{}
	for _, row := range rows {
		key := "<null>"
		if row.Gender != nil {
			key = *row.Gender
		}
		counts[key] = row.Count
	}
	assert.Equal(t, map[string]int64{"M": 2, "F": 1, "": 1, "<null>": 1}, counts)
}

func TestLeadRepository_CountByStatus(t *testing.T) {
	repo := NewLeadRepository(setupDB(t))
	ctx := context.Background()

	for _, s := range []string{types.StatusRegistered, types.StatusRegistered, "3-convertido"} {
		_, err := repo.Create(ctx, types.LeadInput{Name: strPtr("n"), Email: strPtr("e"), Status: strPtr(s)})
		require.NoError(t, err)
	}

	rows, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	counts := map[string]int64{}
	for _, row := range rows {
		require.NotNil(t, row.Status)
		counts[*row.Status] = row.Count
	}
	assert.Equal(t, map[string]int64{types.StatusRegistered: 2, "3-convertido": 1}, counts)
}
