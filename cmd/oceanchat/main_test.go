package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/feed"
	"github.com/couchcryptid/oceanwatch-assistant/internal/lexicon"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--gateway", "off", "--seed", "1"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAsk(t *testing.T) {
	out, err := execute(t, "", "ask", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	out, err = execute(t, "", "ask", "--json", "tell", "me", "about", "rip", "currents")
	require.NoError(t, err)
	var reply domain.Reply
	require.NoError(t, json.Unmarshal([]byte(out), &reply))
	assert.Equal(t, domain.RouteScored, reply.Route)
	assert.Equal(t, domain.OceanHazards, reply.Domain)
}

func TestAsk_NeedsText(t *testing.T) {
	_, err := execute(t, "", "ask")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	out, err := execute(t, "", "classify", "Tsunami warning! Water receding fast")
	require.NoError(t, err)

	var got struct {
		TopDomain domain.DomainID  `json:"top_domain"`
		Analysis  lexicon.Analysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, domain.OceanHazards, got.TopDomain)
	assert.Equal(t, lexicon.Tsunami, got.Analysis.HazardType)
}

func TestChat_StopsOnFarewell(t *testing.T) {
	out, err := execute(t, "tell me about rip currents\nwhat else should i know?\nbye\nignored\n", "chat")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "> "), "one prompt per turn up to the farewell")
}

func TestChat_EndOfInput(t *testing.T) {
	out, err := execute(t, "hello\n", "chat")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "> "))
}

func TestFeed(t *testing.T) {
	out, err := execute(t, "", "feed", "-n", "3")
	require.NoError(t, err)

	lines := nonEmptyLines(out)
	require.Len(t, lines, 3)
	for _, l := range lines {
		var p feed.Post
		require.NoError(t, json.Unmarshal([]byte(l), &p))
		assert.NotEmpty(t, p.Text)
		assert.NotEmpty(t, p.User)
	}
}

func TestFeed_LabelAndSummary(t *testing.T) {
	out, err := execute(t, "", "feed", "-n", "5", "--label", "--summary")
	require.NoError(t, err)

	lines := nonEmptyLines(out)
	require.Len(t, lines, 6)

	var labelled feed.LabelledPost
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &labelled))
	assert.NotEmpty(t, labelled.Analysis.HazardType)

	var s lexicon.Summary
	require.NoError(t, json.Unmarshal([]byte(lines[5]), &s))
	assert.Equal(t, 5, s.TotalPosts)
}

func TestFeed_InvalidCount(t *testing.T) {
	_, err := execute(t, "", "feed", "-n", "0")
	assert.Error(t, err)
}

func TestThresholdOutOfRange(t *testing.T) {
	for _, v := range []string{"0", "1", "-0.2", "1.5"} {
		_, err := execute(t, "", "--threshold", v, "ask", "hello")
		assert.Error(t, err, v)
	}

	_, err := execute(t, "", "--threshold", "0.5", "ask", "hello")
	assert.NoError(t, err)
}

func TestHTTPGatewayRejected(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--gateway", "http", "ask", "hello"})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func nonEmptyLines(s string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
