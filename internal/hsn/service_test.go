package hsn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/gstbook/internal/hsn"
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := hsn.NewMockRepository(ctrl)
	svc := hsn.NewService(repo)

	repo.EXPECT().FindMatch(gomock.Any(), "TMT steel bar 12mm").Return("7214", nil)

	code, err := svc.Suggest(context.Background(), "  TMT steel bar 12mm ")
	require.NoError(t, err)
	assert.Equal(t, "7214", code)

	code, err = svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name      string
		pattern   string
		code      string
		setupMock func(m *hsn.MockRepository)
		wantCode  string
		wantErr   error
	}

	tests := []testCase{
		{
			name:    "Success",
			pattern: "steel bar",
			code:    "7214.20",
			setupMock: func(m *hsn.MockRepository) {
				m.EXPECT().CreateMapping(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode: "721420",
		},
		{
			name:    "BlankPattern",
			pattern: " ",
			code:    "7214",
			wantErr: hsn.ErrInvalidMapping,
		},
		{
			name:    "BadCode",
			pattern: "consulting",
			code:    "99831",
			wantErr: hsn.ErrInvalidMapping,
		},
		{
			name:    "RepoError",
			pattern: "consulting",
			code:    "998311",
			setupMock: func(m *hsn.MockRepository) {
				m.EXPECT().CreateMapping(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := hsn.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := hsn.NewService(repo)
			got, err := svc.Learn(context.Background(), tt.pattern, tt.code)

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, hsn.ErrInvalidMapping) {
					assert.ErrorIs(t, err, hsn.ErrInvalidMapping)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	got, ok := hsn.NormalizeCode("8471 30 10")
	assert.True(t, ok)
	assert.Equal(t, "84713010", got)

	_, ok = hsn.NormalizeCode("84AB")
	assert.False(t, ok)

	_, ok = hsn.NormalizeCode("")
	assert.False(t, ok)
}
