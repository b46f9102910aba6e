package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_CONF_HOST", "db.internal")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "환경 변수 존재", input: "host: ${TEST_CONF_HOST:localhost}", want: "host: db.internal"},
		{name: "기본값 사용", input: "port: ${TEST_CONF_PORT:5432}", want: "port: 5432"},
		{name: "빈 기본값", input: "password: ${TEST_CONF_PASSWORD:}", want: "password: "},
		{name: "기본값 없는 미정의 변수는 유지", input: "key: ${TEST_CONF_MISSING}", want: "key: ${TEST_CONF_MISSING}"},
		{name: "자리표시자 없음", input: "name: kstartup", want: "name: kstartup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, expandEnv(tt.input))
		})
	}
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	// 기본 설정 파일이 없으면 에러를 돌려준다
	t.Chdir(t.TempDir())

	_, err := Load()
	require.Error(t, err)
}
