package company_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/gstbook/internal/company"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    company.CreateParams
		setupMock func(m *company.MockRepository)
		wantGSTIN string
		wantState string
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Registered",
			params: company.CreateParams{Name: " Acme Traders ", GSTIN: "29abcde1234f1z5"},
			setupMock: func(m *company.MockRepository) {
				m.EXPECT().
					CreateCompany(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *company.Company) error {
						assert.Equal(t, "Acme Traders", c.Name)
						c.ID = uuid.New()
						return nil
					})
			},
			wantGSTIN: "29ABCDE1234F1Z5",
			wantState: "29",
		},
		{
			name:   "Unregistered",
			params: company.CreateParams{Name: "Corner Shop"},
			setupMock: func(m *company.MockRepository) {
				m.EXPECT().CreateCompany(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "MissingName",
			params:  company.CreateParams{Name: "  "},
			wantErr: company.ErrInvalidName,
		},
		{
			name:    "BadGSTIN",
			params:  company.CreateParams{Name: "Acme", GSTIN: "AB123"},
			wantErr: company.ErrInvalidGSTIN,
		},
		{
			name:   "RepoError",
			params: company.CreateParams{Name: "Acme"},
			setupMock: func(m *company.MockRepository) {
				m.EXPECT().CreateCompany(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := company.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := company.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantGSTIN, got.GSTIN)
			assert.Equal(t, tt.wantState, got.StateCode)
			assert.Equal(t, tt.wantGSTIN != "", got.TaxRegistered())
		})
	}
}

func TestService_TaxEnabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := company.NewMockRepository(ctrl)
	svc := company.NewService(repo)

	registered := uuid.New()
	unregistered := uuid.New()
	missing := uuid.New()

	repo.EXPECT().GetCompany(gomock.Any(), registered).
		Return(&company.Company{ID: registered, GSTIN: "27AAAPL1234C1ZV"}, nil)
	repo.EXPECT().GetCompany(gomock.Any(), unregistered).
		Return(&company.Company{ID: unregistered}, nil)
	repo.EXPECT().GetCompany(gomock.Any(), missing).
		Return(nil, company.ErrNotFound)

	enabled, err := svc.TaxEnabled(context.Background(), registered)
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = svc.TaxEnabled(context.Background(), unregistered)
	require.NoError(t, err)
	assert.False(t, enabled)

	_, err = svc.TaxEnabled(context.Background(), missing)
	assert.ErrorIs(t, err, company.ErrNotFound)
}

func TestService_UpdateGSTIN(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := company.NewMockRepository(ctrl)
	svc := company.NewService(repo)
	id := uuid.New()

	repo.EXPECT().UpdateGSTIN(gomock.Any(), id, "07AAACB2230M1ZQ", "07").Return(nil)
	repo.EXPECT().UpdateGSTIN(gomock.Any(), id, "", "").Return(nil)

	require.NoError(t, svc.UpdateGSTIN(context.Background(), id, " 07aaacb2230m1zq "))
	require.NoError(t, svc.UpdateGSTIN(context.Background(), id, ""))
	assert.ErrorIs(t, svc.UpdateGSTIN(context.Background(), id, "XX0000000000000"), company.ErrInvalidGSTIN)
}
