package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepLink(t *testing.T) {
	tests := []struct {
		name    string
		bot     string
		id      string
		want    string
		wantErr error
	}{
		{"UUID", "kpi_group_bot", "aa3fa1d4-8ab2-4ad0-b4a0-d2e7a1b0c0ff", "https://t.me/kpi_group_bot?start=aa3fa1d4-8ab2-4ad0-b4a0-d2e7a1b0c0ff", nil},
		{"Numeric", "kpi_group_bot", "1234", "https://t.me/kpi_group_bot?start=1234", nil},
		{"NoBot", "", "1234", "", ErrNoBotName},
		{"Cyrillic", "kpi_group_bot", "ІТ-21", "", ErrInvalidPayload},
		{"Empty", "kpi_group_bot", "", "", ErrInvalidPayload},
		{"WithSpace", "kpi_group_bot", "a b", "", ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := DeepLink(tt.bot, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, link)
		})
	}
}

func TestGroupQRCode(t *testing.T) {
	data, err := GroupQRCode("kpi_group_bot", "1234")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
	assert.Equal(t, DefaultSize, img.Bounds().Dy())

	_, err = GroupQRCode("", "1234")
	assert.ErrorIs(t, err, ErrNoBotName)
}
