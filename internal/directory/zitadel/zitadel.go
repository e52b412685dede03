// Package zitadel implements the Login Directory on a ZITADEL instance.
//
// Every identity is a human user whose username is the identity. Each login is
// one user metadata entry under the "login." key prefix holding the JSON
// record, so repeated logins append entries. Deleting the record deletes the user.
package zitadel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zitadel/zitadel-go/v3/pkg/client"
	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/management"
	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/metadata"
	"github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/object"
	user "github.com/zitadel/zitadel-go/v3/pkg/client/zitadel/user/v2"
	zitadelsdk "github.com/zitadel/zitadel-go/v3/pkg/zitadel"
	"google.golang.org/grpc"
	grpcmd "google.golang.org/grpc/metadata"

	"tg-otp-service/internal/directory"
	"tg-otp-service/internal/domain"
)

const (
	// LoginKeyPrefix - metadata key prefix of login entries
	LoginKeyPrefix = "login."
	// emailDomain - placeholder mail domain, ZITADEL requires an email for human users
	emailDomain = "telegram.local"
	orgHeader   = "x-zitadel-orgid"
)

// UserService is the part of the user v2 API the directory uses.
type UserService interface {
	ListUsers(ctx context.Context, in *user.ListUsersRequest, opts ...grpc.CallOption) (*user.ListUsersResponse, error)
	CreateUser(ctx context.Context, in *user.CreateUserRequest, opts ...grpc.CallOption) (*user.CreateUserResponse, error)
	DeleteUser(ctx context.Context, in *user.DeleteUserRequest, opts ...grpc.CallOption) (*user.DeleteUserResponse, error)
}

// MetadataService is the part of the management API the directory uses.
type MetadataService interface {
	SetUserMetadata(ctx context.Context, in *management.SetUserMetadataRequest, opts ...grpc.CallOption) (*management.SetUserMetadataResponse, error)
	ListUserMetadata(ctx context.Context, in *management.ListUserMetadataRequest, opts ...grpc.CallOption) (*management.ListUserMetadataResponse, error)
}

// Options - connection settings of the ZITADEL backend
type Options struct {
	Domain string
	// InsecurePort, when set, connects without TLS on that port (local instances).
	InsecurePort string
	// PAT is a personal access token of a service user. Either PAT or KeyPath is required.
	PAT     string
	KeyPath string
	// OrgID is the organization the login users are created in.
	OrgID string
}

// Store implements directory.Directory backed by ZITADEL users.
type Store struct {
	users    UserService
	metadata MetadataService
	orgID    string
	now      func() time.Time
}

var _ directory.Directory = (*Store)(nil)

// New returns a Store using the given API clients.
func New(users UserService, md MetadataService, orgID string) *Store {
	return &Store{users: users, metadata: md, orgID: orgID, now: time.Now}
}

// Open connects to the instance described by opts.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Domain == "" {
		return nil, errors.New("zitadel: domain is required")
	}
	if opts.OrgID == "" {
		return nil, errors.New("zitadel: organization ID is required")
	}

	var instance *zitadelsdk.Zitadel
	if opts.InsecurePort != "" {
		instance = zitadelsdk.New(opts.Domain, zitadelsdk.WithInsecure(opts.InsecurePort))
	} else {
		instance = zitadelsdk.New(opts.Domain)
	}

	var auth client.Option
	switch {
	case opts.PAT != "":
		auth = client.WithAuth(client.PAT(opts.PAT))
	case opts.KeyPath != "":
		auth = client.WithAuth(client.DefaultServiceUserAuthentication(opts.KeyPath, client.ScopeZitadelAPI()))
	default:
		return nil, errors.New("zitadel: either a personal access token or a key file is required")
	}

	c, err := client.New(ctx, instance, auth)
	if err != nil {
		return nil, fmt.Errorf("connecting to zitadel: %w", err)
	}
	return New(c.UserServiceV2(), c.ManagementService(), opts.OrgID), nil
}

func (s *Store) CreateRecord(ctx context.Context, identity domain.Identity) error {
	ctx = s.withOrg(ctx)

	userID, found, err := s.findUser(ctx, identity)
	if err != nil {
		return err
	}
	if !found {
		if userID, err = s.createUser(ctx, identity); err != nil {
			return err
		}
	}

	now := s.now()
	value, err := json.Marshal(directory.NewRecord(identity, now))
	if err != nil {
		return err
	}
	_, err = s.metadata.SetUserMetadata(ctx, &management.SetUserMetadataRequest{
		Id:    userID,
		Key:   loginKey(now),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("set login metadata: %w", err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, identity domain.Identity) (bool, error) {
	ctx = s.withOrg(ctx)

	userID, found, err := s.findUser(ctx, identity)
	if err != nil || !found {
		return false, err
	}
	n, err := s.countLogins(ctx, userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) DeleteRecord(ctx context.Context, identity domain.Identity) (int, error) {
	ctx = s.withOrg(ctx)

	userID, found, err := s.findUser(ctx, identity)
	if err != nil || !found {
		return 0, err
	}
	n, err := s.countLogins(ctx, userID)
	if err != nil {
		return 0, err
	}
	if _, err := s.users.DeleteUser(ctx, &user.DeleteUserRequest{UserId: userID}); err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return n, nil
}

// findUser looks the identity up by username.
func (s *Store) findUser(ctx context.Context, identity domain.Identity) (string, bool, error) {
	resp, err := s.users.ListUsers(ctx, &user.ListUsersRequest{
		Queries: []*user.SearchQuery{
			{
				Query: &user.SearchQuery_UserNameQuery{
					UserNameQuery: &user.UserNameQuery{
						UserName: identity.String(),
					},
				},
			},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("find user: %w", err)
	}
	if len(resp.GetResult()) == 0 {
		return "", false, nil
	}
	return resp.GetResult()[0].GetUserId(), true, nil
}

func (s *Store) createUser(ctx context.Context, identity domain.Identity) (string, error) {
	username := identity.String()
	resp, err := s.users.CreateUser(ctx, &user.CreateUserRequest{
		OrganizationId: s.orgID,
		Username:       &username,
		UserType: &user.CreateUserRequest_Human_{
			Human: &user.CreateUserRequest_Human{
				Profile: &user.SetHumanProfile{
					GivenName:  username,
					FamilyName: username,
				},
				Email: &user.SetHumanEmail{
					Email: placeholderEmail(identity),
					Verification: &user.SetHumanEmail_IsVerified{
						IsVerified: true,
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return resp.GetId(), nil
}

func (s *Store) countLogins(ctx context.Context, userID string) (int, error) {
	resp, err := s.metadata.ListUserMetadata(ctx, &management.ListUserMetadataRequest{
		Id: userID,
		Queries: []*metadata.MetadataQuery{
			{
				Query: &metadata.MetadataQuery_KeyQuery{
					KeyQuery: &metadata.MetadataKeyQuery{
						Key:    LoginKeyPrefix,
						Method: object.TextQueryMethod_TEXT_QUERY_METHOD_STARTS_WITH,
					},
				},
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("list login metadata: %w", err)
	}
	n := int(resp.GetDetails().GetTotalResult())
	if l := len(resp.GetResult()); l > n {
		n = l
	}
	return n, nil
}

func (s *Store) withOrg(ctx context.Context) context.Context {
	if s.orgID == "" {
		return ctx
	}
	return grpcmd.AppendToOutgoingContext(ctx, orgHeader, s.orgID)
}

func loginKey(t time.Time) string {
	return LoginKeyPrefix + t.UTC().Format("20060102T150405.000000000Z") + "." + uuid.NewString()[:8]
}

func placeholderEmail(identity domain.Identity) string {
	local := strings.TrimPrefix(identity.String(), "@")
	return local + "@" + emailDomain
}
