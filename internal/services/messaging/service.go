package messaging

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/bingo/internal/models"
	"github.com/KirkDiggler/bingo/internal/random"
	"github.com/KirkDiggler/bingo/internal/services/game"
)

// service implements the Service interface
type service struct {
	// Random number generator for selecting random messages
	random random.Source
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if config.Random == nil {
		return nil, ErrNilRandom
	}

	return &service{
		random: config.Random,
	}, nil
}

func (s *service) pick(messages []string) string {
	return messages[s.random.Intn(len(messages))]
}

// GetJoinGameMessage returns a message for when a player joins a game
func (s *service) GetJoinGameMessage(ctx context.Context, input *GetJoinGameMessageInput) (*GetJoinGameMessageOutput, error) {
	tone := input.PreferredTone
	if tone == "" {
		tone = ToneFunny
	}

	var messages []string
	switch {
	case input.AlreadyJoined && input.GameStatus.IsActive():
		messages = []string{
			"Bạn đang ở trong ván rồi, tấm vé vẫn còn nguyên đây! 🎟️",
			"Quay lại rồi à? Vé của bạn vẫn chờ sẵn.",
			"Lạc đường hả? Bạn vẫn đang chơi mà!",
		}
	case input.AlreadyJoined:
		messages = []string{
			fmt.Sprintf("%s ơi, bạn đã ngồi trong phòng rồi. Đợi chủ phòng bắt đầu nhé!", input.PlayerName),
			"Vào hai lần không được nhiều vé hơn đâu 😄",
			"Bạn có tên trong danh sách rồi, ngồi yên chờ chút nha.",
		}
	case input.IsBot:
		messages = []string{
			fmt.Sprintf("🤖 %s đã vào phòng, coi chừng máy dò số!", input.PlayerName),
			fmt.Sprintf("🤖 %s xin phép góp vui một ván.", input.PlayerName),
		}
	default:
		messages = []string{
			fmt.Sprintf("Chào mừng %s! Cầm vé chắc tay, sắp xổ số rồi. 🎉", input.PlayerName),
			fmt.Sprintf("%s đã vào phòng. Thêm người thêm vui!", input.PlayerName),
			fmt.Sprintf("Một đối thủ mới xuất hiện: %s!", input.PlayerName),
			fmt.Sprintf("%s ngồi vào bàn. Chúc may mắn nhé!", input.PlayerName),
		}
	}

	return &GetJoinGameMessageOutput{
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}

// GetGameStatusMessage returns a dynamic message based on the game status
func (s *service) GetGameStatusMessage(ctx context.Context, input *GetGameStatusMessageInput) (*GetGameStatusMessageOutput, error) {
	var messages []string
	switch input.GameStatus {
	case models.GameStatusWaiting:
		messages = []string{
			fmt.Sprintf("Phòng đang chờ người chơi (%d đã vào). Rủ thêm bạn đi!", input.PlayerCount),
			fmt.Sprintf("%d người đang chờ. Chủ phòng bấm bắt đầu khi đủ người nhé.", input.PlayerCount),
		}
	case models.GameStatusStarting:
		messages = []string{
			"Chuẩn bị... ván đấu sắp bắt đầu!",
			"Ngồi thẳng lưng, cầm vé lên, sắp xổ số rồi!",
		}
	case models.GameStatusPlaying:
		messages = []string{
			"Ván đang diễn ra. Bốc số và dò vé đi nào!",
			"Số đang ra liên tục, ai kinh trước đây?",
			"Đang chơi! Đủ một hàng là hô Bingo ngay.",
		}
	case models.GameStatusSkillPhase:
		messages = []string{
			"Lượt kỹ năng! Dùng một kỹ năng hoặc bỏ qua.",
			"Đến giờ chơi xấu rồi 😈 Chọn kỹ năng đi!",
		}
	case models.GameStatusFinished:
		messages = []string{
			"Ván đã kết thúc. Tạo phòng mới để chơi tiếp nhé!",
			"Hết ván rồi! Làm ván nữa không?",
		}
	default:
		messages = []string{"Không rõ trạng thái phòng."}
	}

	return &GetGameStatusMessageOutput{
		Message: s.pick(messages),
	}, nil
}

// GetDrawMessage returns a comment on a drawn number
func (s *service) GetDrawMessage(ctx context.Context, input *GetDrawMessageInput) (*GetDrawMessageOutput, error) {
	var messages []string
	switch {
	case input.Lucky:
		messages = []string{
			fmt.Sprintf("🍀 %s bốc được số %d, may mắn đang mỉm cười!", input.PlayerName, input.Number),
			fmt.Sprintf("🍀 Tay đỏ! %s ra số %d.", input.PlayerName, input.Number),
		}
	case input.Remaining == 0:
		messages = []string{
			fmt.Sprintf("%s bốc số cuối cùng: %d!", input.PlayerName, input.Number),
		}
	default:
		messages = []string{
			fmt.Sprintf("%s bốc được số %d.", input.PlayerName, input.Number),
			fmt.Sprintf("Số %d! Do %s bốc.", input.Number, input.PlayerName),
			fmt.Sprintf("Con số tiếp theo là... %d! (%s)", input.Number, input.PlayerName),
		}
	}

	return &GetDrawMessageOutput{
		Message: s.pick(messages),
	}, nil
}

// GetSkillMessage describes a skill being used or skipped
func (s *service) GetSkillMessage(ctx context.Context, input *GetSkillMessageInput) (*GetSkillMessageOutput, error) {
	var message string
	switch input.Skill {
	case "":
		message = s.pick([]string{
			fmt.Sprintf("%s bỏ qua lượt kỹ năng.", input.PlayerName),
			fmt.Sprintf("%s chọn sống hiền lành, không dùng kỹ năng.", input.PlayerName),
		})
	case models.SkillRemoveMark:
		message = fmt.Sprintf("🧽 %s xóa một ô đã đánh của %s!", input.PlayerName, input.TargetName)
	case models.SkillAutoMark:
		message = fmt.Sprintf("✅ %s tự đánh thêm một ô.", input.PlayerName)
	case models.SkillIncreaseLuck:
		message = fmt.Sprintf("🍀 %s tăng may mắn cho 3 lượt bốc tới.", input.PlayerName)
	case models.SkillBlockTurn:
		message = fmt.Sprintf("⛔ %s chặn lượt bốc của %s!", input.PlayerName, input.TargetName)
	case models.SkillFiftyFifty:
		message = fmt.Sprintf("🎲 %s dùng 50/50.", input.PlayerName)
	default:
		message = fmt.Sprintf("%s dùng kỹ năng %s.", input.PlayerName, input.Skill)
	}

	return &GetSkillMessageOutput{
		Message: message,
	}, nil
}

// GetResultMessage announces how a game ended
func (s *service) GetResultMessage(ctx context.Context, input *GetResultMessageInput) (*GetResultMessageOutput, error) {
	if input.EndReason == models.EndReasonPoolExhausted || input.WinnerName == "" {
		return &GetResultMessageOutput{
			Title: "Hết số!",
			Message: s.pick([]string{
				"Lồng cầu đã trống mà chưa ai kinh. Ván hòa!",
				"Hết sạch số rồi, không ai thắng cả. Làm ván nữa nhé?",
			}),
		}, nil
	}

	return &GetResultMessageOutput{
		Title: "BINGO! 🎉",
		Message: s.pick([]string{
			fmt.Sprintf("%s đã kinh! Chúc mừng người chiến thắng! 🏆", input.WinnerName),
			fmt.Sprintf("%s hô Bingo và giành chiến thắng!", input.WinnerName),
			fmt.Sprintf("Vỗ tay nào! %s là nhà vô địch ván này.", input.WinnerName),
		}),
	}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	tone := input.PreferredTone
	if tone == "" {
		tone = ToneFunny
	}

	code := input.Code
	if code == "" {
		code = CodeFor(input.Err)
	}

	var messages []string
	switch code {
	case CodeNotFound:
		messages = []string{"Không tìm thấy phòng này. Kiểm tra lại mã phòng nhé."}
	case CodeRoomExists:
		messages = []string{"Kênh này đang có một ván chưa xong rồi."}
	case CodeInAnotherGame:
		messages = []string{"Bạn đang chơi ở phòng khác. Rời phòng đó trước đã."}
	case CodeGameFull:
		messages = []string{
			"Phòng đã đầy chỗ. Hẹn ván sau nhé!",
			"Hết ghế rồi! Thử phòng khác xem.",
		}
	case CodeAlreadyJoined:
		messages = []string{"Bạn đã ở trong phòng rồi."}
	case CodeNotInGame:
		messages = []string{"Bạn không có trong ván này."}
	case CodeNotHost:
		messages = []string{
			"Chỉ chủ phòng mới làm được việc này.",
			"Bạn đâu phải chủ phòng đâu 😅",
		}
	case CodeInvalidKick:
		messages = []string{"Không thể mời người này ra khỏi phòng."}
	case CodeTooFewPlayers:
		messages = []string{"Chưa đủ người để bắt đầu."}
	case CodeWrongPhase:
		messages = []string{
			"Chưa đến lúc làm việc này đâu.",
			"Sai thời điểm rồi, đợi chút nhé.",
		}
	case CodeGameFinished:
		messages = []string{"Ván đã kết thúc rồi."}
	case CodeBlocked:
		messages = []string{
			"Bạn đang bị chặn lượt bốc này! ⛔",
			"Có người chơi xấu chặn bạn rồi, lượt sau nhé.",
		}
	case CodePoolExhausted:
		messages = []string{"Hết số để bốc rồi."}
	case CodeNoBingo:
		messages = []string{
			"Chưa đủ hàng đâu mà hô Bingo! 🙈",
			"Dò lại vé đi, chưa kinh đâu.",
		}
	case CodeSkillUnavailable:
		messages = []string{"Bạn không còn lượt kỹ năng."}
	case CodeInvalidTarget:
		messages = []string{"Mục tiêu không hợp lệ."}
	case CodeFeatureUnavailable:
		messages = []string{"Tính năng này đang tắt trong phòng."}
	case CodeInvalidInput:
		messages = []string{"Yêu cầu không hợp lệ."}
	case CodeUnauthorized:
		messages = []string{"Phiên chơi không hợp lệ, vào lại phòng nhé."}
	default:
		messages = []string{
			"Có lỗi xảy ra, thử lại sau nhé.",
			"Ối, máy xổ số bị kẹt. Thử lại xem!",
		}
	}

	return &GetErrorMessageOutput{
		Code:    code,
		Message: s.pick(messages),
		Tone:    tone,
	}, nil
}

// GetEventMessage returns the line shown to a room for a game event
func (s *service) GetEventMessage(ctx context.Context, input *GetEventMessageInput) (*GetEventMessageOutput, error) {
	if input == nil || input.Event == nil || input.Event.Game == nil {
		return nil, ErrNilEvent
	}
	event := input.Event
	g := event.Game

	var message string
	switch event.Kind {
	case game.EventRoomCreated:
		message = fmt.Sprintf("%s đã mở phòng %s. Mã phòng: %s", nameOf(g, event.ActorID), g.Settings.Title, g.Code)
	case game.EventRoomClosed:
		message = "Chủ phòng đã rời đi, phòng đóng cửa."
	case game.EventPlayerJoined:
		p, _ := g.Player(event.ActorID)
		out, err := s.GetJoinGameMessage(ctx, &GetJoinGameMessageInput{
			PlayerName: nameOf(g, event.ActorID),
			GameStatus: g.Status,
			IsBot:      p != nil && p.IsBot,
		})
		if err != nil {
			return nil, err
		}
		message = out.Message
	case game.EventPlayerLeft:
		message = fmt.Sprintf("%s đã rời phòng.", event.ActorID)
	case game.EventPlayerKicked:
		message = fmt.Sprintf("%s đã bị mời ra khỏi phòng.", event.TargetID)
	case game.EventGameStarting:
		message = "Ván đấu bắt đầu sau vài giây!"
	case game.EventGameStarted:
		message = "Bắt đầu! Ai cũng có thể bốc số."
	case game.EventStartCancelled:
		message = "Không đủ người chơi, phòng quay lại chờ."
	case game.EventNumberDrawn:
		p, _ := g.Player(event.ActorID)
		out, err := s.GetDrawMessage(ctx, &GetDrawMessageInput{
			PlayerName: nameOf(g, event.ActorID),
			Number:     event.Number,
			Lucky:      p != nil && p.LuckTurnsLeft > 0,
			Remaining:  len(g.AvailableNumbers),
		})
		if err != nil {
			return nil, err
		}
		message = out.Message
	case game.EventSkillPhaseStarted:
		message = "✨ Lượt kỹ năng! Mỗi người được dùng một kỹ năng hoặc bỏ qua."
	case game.EventSkillUsed, game.EventSkillSkipped:
		out, err := s.GetSkillMessage(ctx, &GetSkillMessageInput{
			PlayerName: nameOf(g, event.ActorID),
			Skill:      event.Skill,
			TargetName: nameOf(g, event.TargetID),
		})
		if err != nil {
			return nil, err
		}
		message = out.Message
	case game.EventSkillPhaseEnded:
		message = "Hết lượt kỹ năng, tiếp tục bốc số!"
	case game.EventBingo:
		message = fmt.Sprintf("🎉 %s hô BINGO!", nameOf(g, event.ActorID))
	case game.EventGameFinished:
		out, err := s.GetResultMessage(ctx, &GetResultMessageInput{
			WinnerName: nameOf(g, g.WinnerID),
			EndReason:  g.EndReason,
		})
		if err != nil {
			return nil, err
		}
		message = out.Message
	default:
		message = string(event.Kind)
	}

	return &GetEventMessageOutput{
		Message: message,
	}, nil
}

// nameOf falls back to the id for players no longer in the room
func nameOf(g *models.Game, playerID string) string {
	if playerID == "" {
		return ""
	}
	if p, ok := g.Player(playerID); ok {
		return p.Name
	}
	return playerID
}
