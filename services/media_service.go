// Package services — MediaService: LiveKit medya oturumu token üretimi.
//
// Arama kabul edildikten sonra iki taraf da bu service'ten token alır
// ve LiveKit odasına bağlanır. Oda adı her iki tarafta da aynı
// deterministik formülle türetilir — negotiation gerekmez.
package services

import (
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/config"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
)

// CallLookup, kullanıcının aktif aramasını bulmak için minimal interface.
// services.CallService bu interface'i otomatik karşılar.
type CallLookup interface {
	GetUserCall(userID string) *models.Call
}

// MediaService, LiveKit token operasyonları için interface.
type MediaService interface {
	// CallToken, kullanıcının aktif araması için LiveKit JWT üretir.
	// Kullanıcı aramanın katılımcısı değilse veya arama aktif değilse hata döner.
	CallToken(userID, username, callID string) (*models.CallTokenResponse, error)
}

type mediaService struct {
	calls      CallLookup
	livekitCfg config.LiveKitConfig
}

func NewMediaService(calls CallLookup, livekitCfg config.LiveKitConfig) MediaService {
	return &mediaService{
		calls:      calls,
		livekitCfg: livekitCfg,
	}
}

func (s *mediaService) CallToken(userID, username, callID string) (*models.CallTokenResponse, error) {
	// 1. Kullanıcının aktif araması bu arama mı?
	call := s.calls.GetUserCall(userID)
	if call == nil || call.ID != callID {
		return nil, fmt.Errorf("%w: no such active call", pkg.ErrNotFound)
	}
	if call.Status != models.CallStatusActive {
		return nil, fmt.Errorf("%w: call is not active", pkg.ErrBadRequest)
	}

	// 2. LiveKit AccessToken oluştur
	//
	// auth.NewAccessToken: LiveKit'in JWT builder'ı.
	// API key + secret ile imzalanır; LiveKit sunucusu token'ı doğrular
	// ve grant'lara göre odaya izin verir.
	at := auth.NewAccessToken(s.livekitCfg.APIKey, s.livekitCfg.APISecret)

	canPublish := true
	canSubscribe := true

	grant := &auth.VideoGrant{
		RoomJoin:     true,
		Room:         call.RoomName,
		CanPublish:   &canPublish,
		CanSubscribe: &canSubscribe,
	}

	at.AddGrant(grant).
		SetIdentity(userID).
		SetName(username).
		SetValidFor(24 * time.Hour) // Uzun validite — LiveKit disconnect'i kendisi yönetir

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("failed to generate livekit token: %w", err)
	}

	return &models.CallTokenResponse{
		Token:    token,
		URL:      s.livekitCfg.URL,
		RoomName: call.RoomName,
	}, nil
}
