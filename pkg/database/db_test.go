package data_test

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
	data "github.com/tauraamui/medianstream/pkg/database"
	"github.com/tauraamui/medianstream/pkg/database/dbconn"
	"github.com/tauraamui/medianstream/pkg/log"
)

type DatabaseTestSuite struct {
	suite.Suite
	is             *is.I
	fs             afero.Fs
	mock           dbconn.MockGormWrapper
	openedPath     string
	resetFS        func()
	resetUC        func()
	resetOpenDB    func()
	restoreLogging func()
}

func (suite *DatabaseTestSuite) SetupSuite() {
	suite.restoreLogging = log.Silence()
	os.Unsetenv("MEDIAN_STREAM_DB")
}

func (suite *DatabaseTestSuite) TearDownSuite() {
	suite.restoreLogging()
}

func (suite *DatabaseTestSuite) SetupTest() {
	suite.is = is.New(suite.T())
	suite.fs = afero.NewMemMapFs()
	suite.mock = dbconn.Mock()
	suite.openedPath = ""

	suite.resetFS = data.OverloadFS(suite.fs)
	suite.resetUC = data.OverloadUC(func() (string, error) { return "/cache", nil })
	suite.resetOpenDB = data.OverloadOpenDBConnection(func(path string) (dbconn.GormWrapper, error) {
		suite.openedPath = path
		return suite.mock, nil
	})
}

func (suite *DatabaseTestSuite) TearDownTest() {
	suite.resetOpenDB()
	suite.resetUC()
	suite.resetFS()
}

func (suite *DatabaseTestSuite) TestSetupCreatesFileAndMigrates() {
	suite.is.NoErr(data.Setup())

	exists, err := afero.Exists(suite.fs, "/cache/tacusci/medianstream/journal.db")
	suite.is.NoErr(err)
	suite.is.True(exists)
	suite.is.Equal(suite.openedPath, "/cache/tacusci/medianstream/journal.db")
	suite.is.Equal(len(suite.mock.Migrated()), 1)
	suite.is.True(suite.mock.Closed())
}

func (suite *DatabaseTestSuite) TestSetupFailsWhenAlreadyExisting() {
	suite.is.NoErr(data.Setup())
	err := data.Setup()
	suite.is.True(errors.Is(err, data.ErrDBAlreadyExists))
}

func (suite *DatabaseTestSuite) TestDestroyRemovesFile() {
	suite.is.NoErr(data.Setup())
	suite.is.NoErr(data.Destroy())

	exists, err := afero.Exists(suite.fs, "/cache/tacusci/medianstream/journal.db")
	suite.is.NoErr(err)
	suite.is.True(!exists)
}

func (suite *DatabaseTestSuite) TestConnectUsesEnvPath() {
	os.Setenv("MEDIAN_STREAM_DB", "/elsewhere/test.db")
	defer os.Unsetenv("MEDIAN_STREAM_DB")

	db, err := data.Connect()
	suite.is.NoErr(err)
	suite.is.True(db != nil)
	suite.is.Equal(suite.openedPath, "/elsewhere/test.db")
}

func (suite *DatabaseTestSuite) TestConnectFailsOnMigration() {
	suite.mock.SetError(errors.New("read only"))
	_, err := data.Connect()
	suite.is.Equal(err.Error(), "unable to run automigrations: read only")
}

func (suite *DatabaseTestSuite) TestSetupFailsOnPathResolution() {
	reset := data.OverloadUC(func() (string, error) {
		return "", errors.New("test cache dir error")
	})
	defer reset()

	err := data.Setup()
	suite.is.Equal(err.Error(), "unable to resolve journal.db database file location: test cache dir error")
}

func TestDatabaseTestSuite(t *testing.T) {
	suite.Run(t, &DatabaseTestSuite{})
}
