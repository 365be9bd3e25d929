package dest

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daedaleanai/assetcp/digest"
)

func md5Hex(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func sha1Hex(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func TestParseToken(t *testing.T) {
	var useCases = []struct {
		body   string
		ok     bool
		expect Token
	}{
		{"name", true, Token{Name: "name"}},
		{"ext", true, Token{Name: "ext"}},
		{"path", true, Token{Name: "path"}},
		{"index", true, Token{Name: "index"}},
		{"hash", true, Token{Name: "hash"}},
		{"contenthash", true, Token{Name: "contenthash"}},
		{"contenthash:6", true, Token{Name: "contenthash", Length: 6}},
		{"contenthash:sha1", true, Token{Name: "contenthash", Algorithm: "sha1"}},
		{"contenthash:sha1:base64", true, Token{Name: "contenthash", Algorithm: "sha1", Encoding: "base64"}},
		{"contenthash:sha1:hex:4", true, Token{Name: "contenthash", Algorithm: "sha1", Encoding: "hex", Length: 4}},
		{"contenthash:hex:4", true, Token{Name: "contenthash", Encoding: "hex", Length: 4}},
		{"contenthash::base64:20", true, Token{Name: "contenthash", Encoding: "base64", Length: 20}},
		{"contenthash:::", true, Token{Name: "contenthash"}},
		{"sha1:contenthash:hex:4", true, Token{Name: "contenthash", Algorithm: "sha1", Encoding: "hex", Length: 4}},
		{"md5:hash", true, Token{Name: "hash", Algorithm: "md5"}},
		{"md5::base64:20", false, Token{}},
		{"name:6", false, Token{}},
		{"folder", false, Token{}},
		{"", false, Token{}},
		{"contenthash:4:hex", false, Token{}},
		{"contenthash:hex:sha1", false, Token{}},
		{"contenthash:sha1:hex:4:5", false, Token{}},
		{"sha1:contenthash:sha256", false, Token{}},
		{"hex:contenthash", false, Token{}},
		{"6:contenthash", false, Token{}},
	}

	for _, useCase := range useCases {
		actual, ok := parseToken(useCase.body)
		assert.Equal(t, useCase.ok, ok, "[%s]", useCase.body)
		if useCase.ok {
			assert.Equal(t, useCase.expect, actual, "[%s]", useCase.body)
		}
	}
}

func TestInterpolate(t *testing.T) {
	content := []byte("new")
	empty := []byte{}

	var useCases = []struct {
		description string
		template    string
		rel         string
		content     []byte
		expect      string
	}{
		{
			description: "name and ext",
			template:    "[name].[ext]",
			rel:         "binextension.bin",
			expect:      "binextension.bin",
		},
		{
			description: "name, contenthash and ext",
			template:    "[name]-[contenthash:6].[ext]",
			rel:         "file.txt",
			content:     content,
			expect:      "file-" + md5Hex(content)[:6] + ".txt",
		},
		{
			description: "hash is a content hash",
			template:    "[name]-[hash:6].[ext]",
			rel:         "directoryfile.txt",
			content:     content,
			expect:      "directoryfile-" + md5Hex(content)[:6] + ".txt",
		},
		{
			description: "custom digest with prefix algorithm",
			template:    "directory/[sha1:contenthash:hex:4].txt",
			rel:         "directoryfile.txt",
			content:     content,
			expect:      "directory/" + sha1Hex(content)[:4] + ".txt",
		},
		{
			description: "custom digest with suffix algorithm",
			template:    "[contenthash:sha1:hex:4]",
			rel:         "directoryfile.txt",
			content:     content,
			expect:      sha1Hex(content)[:4],
		},
		{
			description: "no extension drops the dot in front of ext",
			template:    "[name][ext].[contenthash:6].newext",
			rel:         "noextension",
			content:     empty,
			expect:      "noextension." + md5Hex(empty)[:6] + ".newext",
		},
		{
			description: "dotted file has no extension",
			template:    "newdirectory/[path][name]-[contenthash:6].[ext]",
			rel:         ".dottedfile",
			content:     content,
			expect:      "newdirectory/.dottedfile-" + md5Hex(content)[:6],
		},
		{
			description: "path keeps the sub directory",
			template:    "newdirectory/[path][name]-[contenthash:6].[ext]",
			rel:         "nested/deep-nested/deepnested.txt",
			content:     empty,
			expect:      "newdirectory/nested/deep-nested/deepnested-" + md5Hex(empty)[:6] + ".txt",
		},
		{
			description: "path is empty at the base",
			template:    "[path][name].[ext]",
			rel:         "file.txt",
			expect:      "file.txt",
		},
		{
			description: "invalid template syntax stays literal",
			template:    "directory/[md5::base64:20].txt",
			rel:         "directoryfile.txt",
			expect:      "directory/[md5::base64:20].txt",
		},
		{
			description: "unknown placeholder stays literal",
			template:    "[folder]/[name].[ext]",
			rel:         "file.txt",
			expect:      "[folder]/file.txt",
		},
		{
			description: "unbalanced brackets stay literal",
			template:    "[name[ext]-[name",
			rel:         "file.txt",
			expect:      "[nametxt-[name",
		},
		{
			description: "repeated tokens",
			template:    "[name]/[name].[ext]",
			rel:         "a/b.c",
			expect:      "b/b.c",
		},
		{
			description: "trailing dot keeps an empty extension",
			template:    "[name].[ext]",
			rel:         "file.",
			expect:      "file.",
		},
	}

	for _, useCase := range useCases {
		file := MatchedFile{RelativePath: useCase.rel}
		actual, err := Interpolate(useCase.template, file, useCase.content)
		require.NoError(t, err, useCase.description)
		assert.Equal(t, useCase.expect, actual, useCase.description)
	}
}

func TestInterpolateIndex(t *testing.T) {
	file := MatchedFile{RelativePath: "file.txt", Index: 7}
	actual, err := Interpolate("[index]-[name].[ext]", file, nil)
	require.NoError(t, err)
	assert.Equal(t, "7-file.txt", actual)
}

func TestInterpolateUnsupportedAlgorithm(t *testing.T) {
	file := MatchedFile{RelativePath: "file.txt"}
	_, err := Interpolate("[contenthash:whirlpool:6]", file, []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, digest.ErrUnsupportedAlgorithm))
}

func TestNameExtRoundTrip(t *testing.T) {
	for _, base := range []string{"file.txt", "a.b", "image.PNG", "x.tar.gz"} {
		actual, err := Interpolate("[name].[ext]", MatchedFile{RelativePath: "dir/" + base}, nil)
		require.NoError(t, err)
		assert.Equal(t, base, actual)
	}
}

func TestTemplateNeedsContent(t *testing.T) {
	assert.False(t, ParseTemplate("[name].[ext]").NeedsContent())
	assert.False(t, ParseTemplate("[md5::base64:20]").NeedsContent())
	assert.True(t, ParseTemplate("[name].[hash]").NeedsContent())
	assert.True(t, ParseTemplate("x/[sha256:contenthash:8]").NeedsContent())

	tmpl := ParseTemplate("a/[name]-[contenthash:6].[ext]")
	assert.True(t, tmpl.HasTokens())
	assert.Equal(t, "a/[name]-[contenthash:6].[ext]", tmpl.String())
	assert.Equal(t, []Token{
		{Name: TokenName},
		{Name: TokenContentHash, Length: 6},
		{Name: TokenExt},
	}, tmpl.Tokens())
	assert.False(t, ParseTemplate("[md5::base64:20]").HasTokens())
}
