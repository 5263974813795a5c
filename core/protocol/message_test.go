package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rover-control/rover/core/model"
)

func TestDecodeModeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"cat":"mode","value":"path"}`))
	require.NoError(t, err)
	mode, ok := req.(ModeRequest)
	require.True(t, ok)
	require.Equal(t, model.ModePath, mode.Mode)

	_, err = DecodeRequest([]byte(`{"cat":"mode","value":"turbo"}`))
	require.Error(t, err)
}

func TestDecodeObstaclesRequest(t *testing.T) {
	raw := []byte(`{"cat":"obstacles","value":{"obstacles":[{"x":5,"y":10,"id":1,"d":2},{"x":12,"y":3,"id":2,"d":6}],"mode":"0"}}`)
	req, err := DecodeRequest(raw)
	require.NoError(t, err)
	obs, ok := req.(ObstaclesRequest)
	require.True(t, ok)
	require.Len(t, obs.Obstacles, 2)
	require.Equal(t, 5, obs.Obstacles[0].X)
	require.Equal(t, 2, obs.Obstacles[0].Direction)
	require.Equal(t, model.TurningIndoor, obs.Turning)

	_, err = DecodeRequest([]byte(`{"cat":"obstacles","value":{"obstacles":[],"mode":"0"}}`))
	require.Error(t, err, "empty obstacle list should be rejected")

	_, err = DecodeRequest([]byte(`{"cat":"obstacles","value":{"obstacles":[{"x":1,"y":1,"id":1,"d":0}],"mode":"9"}}`))
	require.Error(t, err, "unknown turning mode should be rejected")
}

func TestDecodeSingleObstacleRequest(t *testing.T) {
	raw := []byte(`{"cat":"single-obstacle","value":{"robot":{"x":1,"y":1,"d":0},"obstacle":{"x":5,"y":5,"id":1,"d":4}}}`)
	req, err := DecodeRequest(raw)
	require.NoError(t, err)
	so, ok := req.(SingleObstacleRequest)
	require.True(t, ok)
	require.Equal(t, 1, so.Robot.X)
	require.Equal(t, 5, so.Obstacle.Y)
}

func TestDecodeControlRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"cat":"control","value":"start"}`))
	require.NoError(t, err)
	ctl, ok := req.(ControlRequest)
	require.True(t, ok)
	require.Equal(t, "start", ctl.Action)

	_, err = DecodeRequest([]byte(`{"cat":"control","value":"stop"}`))
	require.Error(t, err)
}

func TestDecodeManualRequest(t *testing.T) {
	for _, action := range []string{"FW--", "BW--", "TL--", "TR--", "STOP", "MANSNAP", "WN01", "WN02"} {
		raw := []byte(`{"cat":"manual","value":"` + action + `"}`)
		req, err := DecodeRequest(raw)
		require.NoError(t, err, action)
		man, ok := req.(ManualRequest)
		require.True(t, ok)
		require.Equal(t, action, man.Action)
	}
	_, err := DecodeRequest([]byte(`{"cat":"manual","value":"FW10"}`))
	require.Error(t, err, "metric commands are not manual actions")
}

func TestDecodeRejectsUnknownCategory(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"cat":"telemetry","value":"x"}`))
	require.Error(t, err)

	_, err = DecodeRequest([]byte(`not json`))
	require.Error(t, err)
}

func TestOutboundEncode(t *testing.T) {
	cases := []struct {
		msg  Outbound
		want string
	}{
		{NewInfo("Robot is now in path mode."), `{"cat":"info","value":"Robot is now in path mode."}`},
		{NewError("Command queue is empty, nothing to start."), `{"cat":"error","value":"Command queue is empty, nothing to start."}`},
		{NewLocation(model.Pose{X: 3, Y: 4, Direction: 2}), `{"cat":"location","value":{"x":3,"y":4,"d":2}}`},
		{NewImageRec(ImageRecResult{ImageID: "21", ObstacleID: "3"}), `{"cat":"image-rec","value":{"image_id":"21","obstacle_id":"3"}}`},
		{NewModeMessage(model.ModeManual), `{"cat":"mode","value":"manual"}`},
		{NewStatus(StatusFinished), `{"cat":"status","value":"finished"}`},
	}
	for _, c := range cases {
		got, err := c.msg.Encode()
		require.NoError(t, err)
		require.JSONEq(t, c.want, string(got))
	}
}

func TestOutboundRoundTrip(t *testing.T) {
	got, err := NewStatus(StatusRunning).Encode()
	require.NoError(t, err)
	var env struct {
		Cat   string `json:"cat"`
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(got, &env))
	require.Equal(t, CatStatus, env.Cat)
	require.Equal(t, StatusRunning, env.Value)
}
